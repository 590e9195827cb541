package trading

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	regsvc "brickshare-backend/internal/application/registry"
	tradesvc "brickshare-backend/internal/application/trading"
	"brickshare-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tradingFixture struct {
	h       *Handlers
	db      *gorm.DB
	ownerID uuid.UUID
	buyerID uuid.UUID
}

func setupTradingTest(t *testing.T) *tradingFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Property{}, &domain.PropertyDeed{},
		&domain.ShareHolding{}, &domain.Offer{}, &domain.PlatformTreasury{},
		&domain.PropertyEvent{},
	))

	owner := domain.Account{Fullname: "Owner", Email: "owner@brickshare.dev", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(&owner).Error)
	buyer := domain.Account{Fullname: "Buyer", Email: "buyer@brickshare.dev", PasswordHash: "x", Role: domain.RoleUser, WalletBalance: 100_000}
	require.NoError(t, db.Create(&buyer).Error)

	reg := &regsvc.Service{DB: db}
	_, err = reg.Register(context.Background(), owner.AccountID, regsvc.RegisterInput{
		Name: "Harbor Flat", Location: "Lisbon", Category: domain.CategoryResidential,
		TotalValue: 10_000, TotalShares: 100, PricePerShare: 100,
	})
	require.NoError(t, err)

	return &tradingFixture{
		h:       &Handlers{Service: &tradesvc.Service{DB: db, OfferLifetime: 24 * time.Hour}},
		db:      db,
		ownerID: owner.AccountID,
		buyerID: buyer.AccountID,
	}
}

func (f *tradingFixture) app(accountID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"account_id": accountID.String(),
			"email":      "user@brickshare.dev",
			"role":       domain.RoleUser,
		})
		return c.Next()
	})
	app.Post("/properties/:id/purchase", f.h.Purchase)
	app.Post("/offers", f.h.CreateOffer)
	app.Post("/offers/:id/accept", f.h.AcceptOffer)
	app.Post("/offers/:id/cancel", f.h.CancelOffer)
	app.Get("/offers/:id", f.h.GetOffer)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) (*fiber.App, map[string]interface{}, int) {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return app, result, resp.StatusCode
}

func TestPurchase_Success(t *testing.T) {
	f := setupTradingTest(t)

	_, result, code := postJSON(t, f.app(f.buyerID), "/properties/1/purchase", map[string]interface{}{
		"shares": 10, "payment": 1000,
	})
	assert.Equal(t, 200, code)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(90), data["available_shares"])
}

func TestPurchase_UnderpaymentRejected(t *testing.T) {
	f := setupTradingTest(t)

	_, result, code := postJSON(t, f.app(f.buyerID), "/properties/1/purchase", map[string]interface{}{
		"shares": 10, "payment": 999,
	})
	assert.Equal(t, 400, code)
	errObj, _ := result["error"].(map[string]interface{})
	assert.Equal(t, "Insufficient payment", errObj["message"])
}

func TestPurchase_UnknownPropertyIs404(t *testing.T) {
	f := setupTradingTest(t)

	_, _, code := postJSON(t, f.app(f.buyerID), "/properties/42/purchase", map[string]interface{}{
		"shares": 10, "payment": 1000,
	})
	assert.Equal(t, 404, code)
}

func TestOfferLifecycleOverHTTP(t *testing.T) {
	f := setupTradingTest(t)

	_, result, code := postJSON(t, f.app(f.buyerID), "/offers", map[string]interface{}{
		"property_id": 1, "shares": 20, "price_per_share": 150,
	})
	require.Equal(t, 201, code)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["offer_id"])
	assert.Equal(t, float64(3000), data["total_price"])
	assert.Equal(t, true, data["is_active"])

	// The owner fills it.
	_, result, code = postJSON(t, f.app(f.ownerID), "/offers/1/accept", nil)
	require.Equal(t, 200, code)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_active"])

	// Settling again conflicts.
	_, _, code = postJSON(t, f.app(f.ownerID), "/offers/1/accept", nil)
	assert.Equal(t, 409, code)
}

func TestCancelOffer_BuyerOnly(t *testing.T) {
	f := setupTradingTest(t)

	_, _, code := postJSON(t, f.app(f.buyerID), "/offers", map[string]interface{}{
		"property_id": 1, "shares": 20, "price_per_share": 150,
	})
	require.Equal(t, 201, code)

	_, _, code = postJSON(t, f.app(f.ownerID), "/offers/1/cancel", nil)
	assert.Equal(t, 403, code)

	_, _, code = postJSON(t, f.app(f.buyerID), "/offers/1/cancel", nil)
	assert.Equal(t, 200, code)
}

func TestGetOffer_Unknown404(t *testing.T) {
	f := setupTradingTest(t)
	app := f.app(f.buyerID)

	resp, err := app.Test(httptest.NewRequest("GET", "/offers/9", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
