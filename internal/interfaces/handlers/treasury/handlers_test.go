package treasury

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	treasvc "brickshare-backend/internal/application/treasury"
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTreasuryTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}, &domain.PlatformTreasury{}))
	return &Handlers{Service: &treasvc.Service{DB: db}}, db
}

func treasuryApp(h *Handlers, accountID uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"account_id": accountID.String(),
			"email":      "user@brickshare.dev",
			"role":       role,
		})
		return c.Next()
	})
	app.Get("/platform/fee", h.Fee)
	app.Get("/platform/fees", h.Fees)
	app.Patch("/platform/fee", middleware.RequireAuth(), middleware.RequireAdmin(), h.UpdateFee)
	app.Post("/platform/fees/withdraw", middleware.RequireAuth(), middleware.RequireAdmin(), h.Withdraw)
	return app
}

func TestFee_DefaultRate(t *testing.T) {
	h, _ := setupTreasuryTest(t)
	app := treasuryApp(h, uuid.New(), domain.RoleUser)

	resp, err := app.Test(httptest.NewRequest("GET", "/platform/fee", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(250), data["fee_bps"])
}

func TestUpdateFee_AdminOnly(t *testing.T) {
	h, _ := setupTreasuryTest(t)
	body, _ := json.Marshal(map[string]interface{}{"fee_bps": 500})

	req := httptest.NewRequest("PATCH", "/platform/fee", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := treasuryApp(h, uuid.New(), domain.RoleUser).Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("PATCH", "/platform/fee", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = treasuryApp(h, uuid.New(), domain.RoleAdmin).Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestUpdateFee_OverCapRejected(t *testing.T) {
	h, _ := setupTreasuryTest(t)
	body, _ := json.Marshal(map[string]interface{}{"fee_bps": 1100})

	req := httptest.NewRequest("PATCH", "/platform/fee", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := treasuryApp(h, uuid.New(), domain.RoleAdmin).Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	errObj, _ := result["error"].(map[string]interface{})
	assert.Equal(t, "Fee too high", errObj["message"])
}

func TestWithdraw_CreditsAdminWallet(t *testing.T) {
	h, db := setupTreasuryTest(t)

	admin := domain.Account{Fullname: "Admin", Email: "admin@brickshare.dev", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	_, err := treasvc.FeeOn(db, 10_000)
	require.NoError(t, err)

	resp, err := treasuryApp(h, admin.AccountID, domain.RoleAdmin).
		Test(httptest.NewRequest("POST", "/platform/fees/withdraw", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(250), data["withdrawn"])

	var reloaded domain.Account
	require.NoError(t, db.Where("account_id = ?", admin.AccountID).First(&reloaded).Error)
	assert.Equal(t, int64(250), reloaded.WalletBalance)
}
