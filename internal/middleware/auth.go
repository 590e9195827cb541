package middleware

import (
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// Actor is the authenticated caller resolved from the session.
type Actor struct {
	AccountID uuid.UUID
	Email     string
	Role      string
}

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetActor(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the session user holds the admin role. Administrator-only
// operations (verify, status, fee, withdraw) mount this after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actor.Role != domain.RoleAdmin {
			return response.Forbidden(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetActor returns the session user as a typed actor, nil when not logged in
// or when the session payload is malformed.
func GetActor(c *fiber.Ctx) *Actor {
	u := c.Locals(userLocal)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	idStr, _ := m["account_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	email, _ := m["email"].(string)
	role, _ := m["role"].(string)
	return &Actor{AccountID: id, Email: email, Role: role}
}
