package domain

import "time"

// DefaultFeeBps is the platform fee applied to primary and secondary sale
// proceeds when no admin override has been set: 250 bps = 2.5%.
const DefaultFeeBps = 250

// MaxFeeBps caps admin fee updates at 10%.
const MaxFeeBps = 1000

// PlatformTreasury is a singleton row: the current fee rate in basis points
// and the fees accumulated (cents) awaiting admin withdrawal.
type PlatformTreasury struct {
	ID              uint      `gorm:"column:treasury_id;primaryKey" json:"treasury_id"`
	FeeBps          int64     `gorm:"column:fee_bps;not null" json:"fee_bps"`
	AccumulatedFees int64     `gorm:"column:accumulated_fees;not null;default:0" json:"accumulated_fees"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (PlatformTreasury) TableName() string {
	return "PlatformTreasury"
}
