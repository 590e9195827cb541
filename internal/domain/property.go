package domain

import (
	"time"

	"github.com/google/uuid"
)

// PropertyCategory is a closed set; reject anything else at the boundary.
type PropertyCategory string

const (
	CategoryResidential PropertyCategory = "residential"
	CategoryCommercial  PropertyCategory = "commercial"
	CategoryIndustrial  PropertyCategory = "industrial"
	CategoryLand        PropertyCategory = "land"
	CategoryMixed       PropertyCategory = "mixed"
)

func (c PropertyCategory) Valid() bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryIndustrial, CategoryLand, CategoryMixed:
		return true
	}
	return false
}

// PropertyStatus is administrator-settable; any status is reachable from any
// other (no transition table).
type PropertyStatus string

const (
	StatusActive     PropertyStatus = "active"
	StatusSold       PropertyStatus = "sold"
	StatusUnderOffer PropertyStatus = "under_offer"
	StatusRented     PropertyStatus = "rented"
	StatusInactive   PropertyStatus = "inactive"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusUnderOffer, StatusRented, StatusInactive:
		return true
	}
	return false
}

// Property is a registered real-estate asset divided into a fixed number of
// fungible shares. IDs are sequential from 1. All currency fields are cents.
// AvailableShares counts primary-sale stock still held by the owner; it only
// decreases, via purchases. OwnerID is provenance (see PropertyDeed), not a
// share balance, and is unaffected by share sales.
type Property struct {
	ID                  uint             `gorm:"column:property_id;primaryKey;autoIncrement" json:"property_id"`
	OwnerID             uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Name                string           `gorm:"column:name;not null" json:"name"`
	Location            string           `gorm:"column:location;not null" json:"location"`
	Category            PropertyCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	TotalValue          int64            `gorm:"column:total_value;not null" json:"total_value"`
	TotalShares         int64            `gorm:"column:total_shares;not null" json:"total_shares"`
	AvailableShares     int64            `gorm:"column:available_shares;not null" json:"available_shares"`
	PricePerShare       int64            `gorm:"column:price_per_share;not null" json:"price_per_share"`
	Status              PropertyStatus   `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	Verified            bool             `gorm:"column:verified;not null;default:false" json:"verified"`
	MonthlyRentalIncome int64            `gorm:"column:monthly_rental_income;not null;default:0" json:"monthly_rental_income"`
	MetadataRef         string           `gorm:"column:metadata_ref" json:"metadata_ref"`
	CreatedAt           time.Time        `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt           time.Time        `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

// PropertyDeed is the provenance token for a property: exactly one per
// property, minted to the registrant. Distinct from share balances.
type PropertyDeed struct {
	PropertyID uint      `gorm:"column:property_id;primaryKey" json:"property_id"`
	OwnerID    uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	CreatedAt  time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (PropertyDeed) TableName() string {
	return "PropertyDeeds"
}
