package domain

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a buyer's standing, funded proposal to acquire shares of a
// property from any sufficiently-holding seller. TotalPrice (cents) is the
// exact amount escrowed from the buyer's wallet at creation; it is released
// exactly once, to the seller on acceptance (minus fee) or back to the buyer
// on cancellation. IDs are sequential from 1. Expired offers stay active
// until explicitly cancelled; there is no sweep.
type Offer struct {
	ID            uint      `gorm:"column:offer_id;primaryKey;autoIncrement" json:"offer_id"`
	PropertyID    uint      `gorm:"column:property_id;not null;index" json:"property_id"`
	BuyerID       uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	Shares        int64     `gorm:"column:shares;not null" json:"shares"`
	PricePerShare int64     `gorm:"column:price_per_share;not null" json:"price_per_share"`
	TotalPrice    int64     `gorm:"column:total_price;not null" json:"total_price"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ExpiresAt     time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt     time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Offer) TableName() string {
	return "Offers"
}
