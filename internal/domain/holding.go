package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareHolding is one (property, account) share balance. Created on first
// acquisition, kept at zero when fully sold away (never deleted). For every
// property the balances sum to Property.TotalShares at all times.
type ShareHolding struct {
	HoldingID  uuid.UUID `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	PropertyID uint      `gorm:"column:property_id;not null;uniqueIndex:idx_property_account" json:"property_id"`
	AccountID  uuid.UUID `gorm:"column:account_id;type:uuid;not null;uniqueIndex:idx_property_account" json:"account_id"`
	Shares     int64     `gorm:"column:shares;not null;default:0" json:"shares"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (ShareHolding) TableName() string {
	return "ShareHoldings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *ShareHolding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
