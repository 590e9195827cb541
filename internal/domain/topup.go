package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WalletTopUp records one Stripe-funded wallet credit. The unique index on
// the payment intent id makes webhook processing idempotent: the same Stripe
// event can arrive more than once but credits the wallet exactly once.
type WalletTopUp struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StripePaymentIntentID string         `gorm:"column:stripe_payment_intent_id;uniqueIndex;not null" json:"stripe_payment_intent_id"`
	StripeEventID         string         `gorm:"column:stripe_event_id;uniqueIndex;not null" json:"stripe_event_id"`
	AccountID             uuid.UUID      `gorm:"column:account_id;type:uuid;not null" json:"account_id"`
	AmountCents           int64          `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency              string         `gorm:"column:currency;not null" json:"currency"`
	Status                string         `gorm:"column:status;not null" json:"status"`
	RawPaymentIntent      datatypes.JSON `gorm:"column:raw_payment_intent;type:jsonb;not null" json:"raw_payment_intent"`
	CreatedAt             time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt             time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (WalletTopUp) TableName() string {
	return "WalletTopUps"
}

func (w *WalletTopUp) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
