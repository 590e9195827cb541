package income

import (
	"context"
	"testing"
	"time"

	"brickshare-backend/internal/application/registry"
	"brickshare-backend/internal/application/trading"
	"brickshare-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type incomeFixture struct {
	svc     *Service
	db      *gorm.DB
	ownerID uuid.UUID
	buyerID uuid.UUID
}

// setupIncomeTest builds the canonical scenario: a 100-share property at 1
// cent per share, with the buyer holding 25 shares bought from the owner.
func setupIncomeTest(t *testing.T) (*incomeFixture, *domain.Property) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Property{}, &domain.PropertyDeed{},
		&domain.ShareHolding{}, &domain.RentalIncome{}, &domain.DividendClaim{},
		&domain.PlatformTreasury{}, &domain.PropertyEvent{},
	))

	f := &incomeFixture{svc: &Service{DB: db}, db: db}
	f.ownerID = f.newAccount(t, "owner@brickshare.dev", 10_000)
	f.buyerID = f.newAccount(t, "buyer@brickshare.dev", 10_000)

	reg := &registry.Service{DB: db}
	property, err := reg.Register(context.Background(), f.ownerID, registry.RegisterInput{
		Name:          "Garden House",
		Location:      "Austin, TX",
		Category:      domain.CategoryResidential,
		TotalValue:    100,
		TotalShares:   100,
		PricePerShare: 1,
	})
	require.NoError(t, err)

	trade := &trading.Service{DB: db, OfferLifetime: 24 * time.Hour}
	_, err = trade.Purchase(context.Background(), f.buyerID, property.ID, 25, 25)
	require.NoError(t, err)

	return f, property
}

func (f *incomeFixture) newAccount(t *testing.T, email string, balance int64) uuid.UUID {
	acct := domain.Account{
		Fullname:      "Test User",
		Email:         email,
		PasswordHash:  "x",
		Role:          domain.RoleUser,
		WalletBalance: balance,
	}
	require.NoError(t, f.db.Create(&acct).Error)
	return acct.AccountID
}

func (f *incomeFixture) walletBalance(t *testing.T, accountID uuid.UUID) int64 {
	var acct domain.Account
	require.NoError(t, f.db.Where("account_id = ?", accountID).First(&acct).Error)
	return acct.WalletBalance
}

func TestDeposit_GrowsUnclaimedPool(t *testing.T) {
	f, property := setupIncomeTest(t)

	before := f.walletBalance(t, f.ownerID)
	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 100, "2026-08")
	require.NoError(t, err)

	unclaimed, err := f.svc.Unclaimed(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), unclaimed)
	assert.Equal(t, before-100, f.walletBalance(t, f.ownerID))

	// Deposits accumulate.
	_, err = f.svc.Deposit(context.Background(), f.ownerID, property.ID, 50, "2026-09")
	require.NoError(t, err)
	unclaimed, err = f.svc.Unclaimed(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), unclaimed)
}

func TestDeposit_AnyAccountMayDeposit(t *testing.T) {
	f, property := setupIncomeTest(t)
	tenantID := f.newAccount(t, "tenant@brickshare.dev", 1_000)

	_, err := f.svc.Deposit(context.Background(), tenantID, property.ID, 300, "2026-08")
	require.NoError(t, err)
	assert.Equal(t, int64(700), f.walletBalance(t, tenantID))
}

func TestDeposit_ZeroFails(t *testing.T) {
	f, property := setupIncomeTest(t)

	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 0, "2026-08")
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestDeposit_InsufficientWalletFails(t *testing.T) {
	f, property := setupIncomeTest(t)
	brokeID := f.newAccount(t, "broke@brickshare.dev", 10)

	_, err := f.svc.Deposit(context.Background(), brokeID, property.ID, 100, "2026-08")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	unclaimed, err := f.svc.Unclaimed(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Zero(t, unclaimed)
}

func TestDividend_ProportionalToCurrentHoldings(t *testing.T) {
	f, property := setupIncomeTest(t)

	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 100, "2026-08")
	require.NoError(t, err)

	// Buyer holds 25 of 100 shares: 100 * 25 / 100 = 25.
	buyerDue, err := f.svc.CalculateDividend(context.Background(), property.ID, f.buyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), buyerDue)

	// Owner holds the remaining 75.
	ownerDue, err := f.svc.CalculateDividend(context.Background(), property.ID, f.ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(75), ownerDue)

	// A non-holder is due nothing.
	due, err := f.svc.CalculateDividend(context.Background(), property.ID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, due)
}

func TestClaim_PaysAndShrinksPool(t *testing.T) {
	f, property := setupIncomeTest(t)

	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 100, "2026-08")
	require.NoError(t, err)

	before := f.walletBalance(t, f.buyerID)
	paid, err := f.svc.Claim(context.Background(), f.buyerID, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), paid)
	assert.Equal(t, before+25, f.walletBalance(t, f.buyerID))

	unclaimed, err := f.svc.Unclaimed(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(75), unclaimed)

	claimed, err := f.svc.HolderClaimed(context.Background(), property.ID, f.buyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), claimed)
}

// Entitlement is recomputed against whatever remains in the pool, so a
// repeat claim against leftovers pays again, smaller each time.
func TestClaim_RecomputesFromRemainingPool(t *testing.T) {
	f, property := setupIncomeTest(t)

	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 100, "2026-08")
	require.NoError(t, err)

	_, err = f.svc.Claim(context.Background(), f.buyerID, property.ID)
	require.NoError(t, err)

	// Pool is 75 now; buyer still holds 25/100, so 75*25/100 = 18.
	due, err := f.svc.CalculateDividend(context.Background(), property.ID, f.buyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), due)
}

func TestClaim_NoHoldingsFails(t *testing.T) {
	f, property := setupIncomeTest(t)
	strangerID := f.newAccount(t, "stranger@brickshare.dev", 0)

	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 100, "2026-08")
	require.NoError(t, err)

	_, err = f.svc.Claim(context.Background(), strangerID, property.ID)
	assert.ErrorIs(t, err, domain.ErrNoDividends)
}

func TestClaim_EmptyPoolFails(t *testing.T) {
	f, property := setupIncomeTest(t)

	_, err := f.svc.Claim(context.Background(), f.buyerID, property.ID)
	assert.ErrorIs(t, err, domain.ErrNoDividends)
}

func TestClaim_TruncationLeavesDustInPool(t *testing.T) {
	f, property := setupIncomeTest(t)

	// Pool of 10 across 25/100 shares: 10*25/100 = 2, dust stays unclaimed.
	_, err := f.svc.Deposit(context.Background(), f.ownerID, property.ID, 10, "2026-08")
	require.NoError(t, err)

	paid, err := f.svc.Claim(context.Background(), f.buyerID, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), paid)

	unclaimed, err := f.svc.Unclaimed(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), unclaimed)
}

func TestUnclaimed_UnknownPropertyFails(t *testing.T) {
	f, _ := setupIncomeTest(t)

	_, err := f.svc.Unclaimed(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}
