package shares

import (
	"context"
	"testing"

	"brickshare-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSharesTest(t *testing.T) (*Service, *gorm.DB, *domain.Property) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Property{}, &domain.ShareHolding{}))

	property := &domain.Property{
		OwnerID:         uuid.New(),
		Name:            "Test Lot",
		Location:        "Denver",
		Category:        domain.CategoryLand,
		TotalValue:      1_000,
		TotalShares:     50,
		AvailableShares: 50,
		PricePerShare:   20,
		Status:          domain.StatusActive,
	}
	require.NoError(t, db.Create(property).Error)
	return &Service{DB: db}, db, property
}

func hold(t *testing.T, db *gorm.DB, propertyID uint, accountID uuid.UUID, n int64) {
	require.NoError(t, db.Create(&domain.ShareHolding{
		PropertyID: propertyID,
		AccountID:  accountID,
		Shares:     n,
	}).Error)
}

func TestTransfer_MovesBetweenHolders(t *testing.T) {
	_, db, property := setupSharesTest(t)
	alice, bob := uuid.New(), uuid.New()
	hold(t, db, property.ID, alice, 50)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Transfer(tx, property.ID, alice, bob, 20)
	}))

	aliceHeld, err := Balance(db, property.ID, alice)
	require.NoError(t, err)
	bobHeld, err := Balance(db, property.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(30), aliceHeld)
	assert.Equal(t, int64(20), bobHeld)
}

func TestTransfer_SenderEmptiedToZeroKeepsRow(t *testing.T) {
	_, db, property := setupSharesTest(t)
	alice, bob := uuid.New(), uuid.New()
	hold(t, db, property.ID, alice, 50)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return Transfer(tx, property.ID, alice, bob, 50)
	}))

	held, err := Balance(db, property.ID, alice)
	require.NoError(t, err)
	assert.Zero(t, held)

	// Emptied, not deleted: the row stays for claim history.
	var row domain.ShareHolding
	require.NoError(t, db.Where("property_id = ? AND account_id = ?", property.ID, alice).First(&row).Error)
}

func TestTransfer_InsufficientShares(t *testing.T) {
	_, db, property := setupSharesTest(t)
	alice, bob := uuid.New(), uuid.New()
	hold(t, db, property.ID, alice, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Transfer(tx, property.ID, alice, bob, 11)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)

	// Sender with no row at all is treated the same.
	err = db.Transaction(func(tx *gorm.DB) error {
		return Transfer(tx, property.ID, bob, alice, 1)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)
}

func TestTransfer_RejectsNonPositiveCount(t *testing.T) {
	_, db, property := setupSharesTest(t)
	alice, bob := uuid.New(), uuid.New()
	hold(t, db, property.ID, alice, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		return Transfer(tx, property.ID, alice, bob, 0)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidShares)
}

func TestGetUserShares(t *testing.T) {
	svc, db, property := setupSharesTest(t)
	alice := uuid.New()
	hold(t, db, property.ID, alice, 15)

	held, err := svc.GetUserShares(context.Background(), property.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(15), held)

	// An account that never touched the property holds zero.
	held, err = svc.GetUserShares(context.Background(), property.ID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, held)

	_, err = svc.GetUserShares(context.Background(), 999, alice)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}
