package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentalIncome is the per-property income aggregate: cumulative deposits and
// cumulative claims, both monotonic, TotalClaimed <= TotalDeposited always.
// The unclaimed pool is the difference; there is no per-deposit ledger.
type RentalIncome struct {
	PropertyID     uint      `gorm:"column:property_id;primaryKey" json:"property_id"`
	TotalDeposited int64     `gorm:"column:total_deposited;not null;default:0" json:"total_deposited"`
	TotalClaimed   int64     `gorm:"column:total_claimed;not null;default:0" json:"total_claimed"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RentalIncome) TableName() string {
	return "RentalIncomes"
}

// DividendClaim tracks one holder's cumulative claimed amount for a property,
// for audit. Entitlement itself is always recomputed from current holdings.
type DividendClaim struct {
	ClaimID    uuid.UUID `gorm:"column:claim_id;type:uuid;primaryKey" json:"claim_id"`
	PropertyID uint      `gorm:"column:property_id;not null;uniqueIndex:idx_claim_property_account" json:"property_id"`
	AccountID  uuid.UUID `gorm:"column:account_id;type:uuid;not null;uniqueIndex:idx_claim_property_account" json:"account_id"`
	Claimed    int64     `gorm:"column:claimed;not null;default:0" json:"claimed"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (DividendClaim) TableName() string {
	return "DividendClaims"
}

func (d *DividendClaim) BeforeCreate(tx *gorm.DB) error {
	if d.ClaimID == uuid.Nil {
		d.ClaimID = uuid.New()
	}
	return nil
}
