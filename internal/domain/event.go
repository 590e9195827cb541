package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property event types, written in the same transaction as the state change
// they describe so external consumers never see an event without its effect.
const (
	EventPropertyRegistered    = "PROPERTY_REGISTERED"
	EventPropertyVerified      = "PROPERTY_VERIFIED"
	EventSharesPurchased       = "SHARES_PURCHASED"
	EventSharesTransferred     = "SHARES_TRANSFERRED"
	EventOfferCreated          = "OFFER_CREATED"
	EventOfferAccepted         = "OFFER_ACCEPTED"
	EventOfferCancelled        = "OFFER_CANCELLED"
	EventRentalIncomeDeposited = "RENTAL_INCOME_DEPOSITED"
	EventDividendsClaimed      = "DIVIDENDS_CLAIMED"
)

type PropertyEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	PropertyID uint           `gorm:"column:property_id;not null;index" json:"property_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	ActorID    *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	CreatedAt  time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (PropertyEvent) TableName() string {
	return "PropertyEvents"
}

func (e *PropertyEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
