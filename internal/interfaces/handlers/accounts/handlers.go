package accounts

import (
	"context"

	acctsvc "brickshare-backend/internal/application/accounts"
	"brickshare-backend/internal/middleware"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *acctsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// LoginRequest body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /api/v1/auth/register — create account, establish session.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req acctsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	account, err := h.Service.Register(c.Context(), req)
	if err != nil {
		switch err {
		case acctsvc.ErrEmailPasswordRequired, acctsvc.ErrInvalidEmail, acctsvc.ErrWeakPassword:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case acctsvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if err := h.establishSession(c, account.AccountID.String(), account.Fullname, account.Email, account.Role); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"account_id":     account.AccountID,
		"fullname":       account.Fullname,
		"email":          account.Email,
		"role":           account.Role,
		"wallet_balance": account.WalletBalance,
	}, nil)
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	account, err := h.Service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case acctsvc.ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case acctsvc.ErrInvalidEmail, acctsvc.ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if err := h.establishSession(c, account.AccountID.String(), account.Fullname, account.Email, account.Role); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"account_id":     account.AccountID,
		"fullname":       account.Fullname,
		"email":          account.Email,
		"role":           account.Role,
		"wallet_balance": account.WalletBalance,
	}, nil)
}

// Me GET /api/v1/auth/me — session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	account, err := h.Service.Get(c.Context(), actor.AccountID.String())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{
		"account_id":     account.AccountID,
		"fullname":       account.Fullname,
		"email":          account.Email,
		"role":           account.Role,
		"wallet_balance": account.WalletBalance,
	}, nil)
}

// Logout DELETE /api/v1/auth/logout — destroy session, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sid := middleware.GetSessionID(c)
	actor := middleware.GetActor(c)
	if sid != "" && h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sid)
		if actor != nil {
			h.Rdb.SRem(ctx, userSessionsPrefix+actor.AccountID.String(), sid)
		}
	}
	middleware.DestroySession(c)
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.Success(c, "Logged out", fiber.Map{}, nil)
}

func (h *Handlers) establishSession(c *fiber.Ctx, accountID, fullname, email, role string) error {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		AccountID: accountID,
		Fullname:  fullname,
		Email:     email,
		Role:      role,
	})
	if h.Rdb != nil {
		if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+accountID, sessionID).Err(); err != nil {
			return err
		}
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
	return nil
}
