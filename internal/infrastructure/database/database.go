package database

import (
	"brickshare-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all ledger models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.Property{},
		&domain.PropertyDeed{},
		&domain.ShareHolding{},
		&domain.Offer{},
		&domain.RentalIncome{},
		&domain.DividendClaim{},
		&domain.PlatformTreasury{},
		&domain.PropertyEvent{},
		&domain.WalletTopUp{},
	)
}
