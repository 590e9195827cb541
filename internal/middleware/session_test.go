package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brickshare-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSession_RoundTrip(t *testing.T) {
	mr, rdb := setupSessionTest(t)
	accountID := uuid.New().String()

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{
			AccountID: accountID,
			Fullname:  "Ada",
			Email:     "ada@example.com",
			Role:      domain.RoleUser,
		})
		cookie := SessionCookieConfig(SessionConfig{})
		cookie.Value = sid
		c.Cookie(&cookie)
		return c.SendStatus(200)
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return c.SendStatus(401)
		}
		return c.JSON(fiber.Map{"account_id": actor.AccountID, "email": actor.Email})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)

	// The session landed in Redis under the expected key.
	stored, err := mr.Get(SessionRedisPrefix + sid)
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stored), &payload))

	// A follow-up request with the cookie resolves the actor.
	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, accountID, body["account_id"])
	assert.Equal(t, "ada@example.com", body["email"])
}

func TestSession_NoCookieMeansNoActor(t *testing.T) {
	_, rdb := setupSessionTest(t)

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/me", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestSession_UnknownSessionIDIsAnonymous(t *testing.T) {
	_, rdb := setupSessionTest(t)

	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Get("/me", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: uuid.New().String()})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	role := domain.RoleUser
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"account_id": uuid.New().String(),
			"email":      "user@brickshare.dev",
			"role":       role,
		})
		return c.Next()
	})
	app.Get("/admin", RequireAuth(), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	role = domain.RoleAdmin
	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
