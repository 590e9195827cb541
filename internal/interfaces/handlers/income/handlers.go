package income

import (
	"errors"
	"strconv"

	incomesvc "brickshare-backend/internal/application/income"
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/middleware"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *incomesvc.Service
}

// Deposit POST /api/v1/properties/:id/income — pool rental income (cents).
// Open to any authenticated account, not just the property owner.
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := paramID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Amount int64  `json:"amount"`
		Period string `json:"period"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	agg, err := h.Service.Deposit(c.Context(), actor.AccountID, propertyID, body.Amount, body.Period)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Rental income deposited", agg, nil)
}

// Unclaimed GET /api/v1/properties/:id/dividends
func (h *Handlers) Unclaimed(c *fiber.Ctx) error {
	propertyID, err := paramID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	amount, err := h.Service.Unclaimed(c.Context(), propertyID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Unclaimed dividends", fiber.Map{
		"property_id": propertyID,
		"unclaimed":   amount,
	}, nil)
}

// Calculate GET /api/v1/properties/:id/dividends/:account
func (h *Handlers) Calculate(c *fiber.Ctx) error {
	propertyID, err := paramID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	accountID, err := uuid.Parse(c.Params("account"))
	if err != nil {
		return response.Error(c, "Invalid account id", fiber.StatusBadRequest, nil)
	}
	amount, err := h.Service.CalculateDividend(c.Context(), propertyID, accountID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Dividend", fiber.Map{
		"property_id": propertyID,
		"account_id":  accountID,
		"dividend":    amount,
	}, nil)
}

// Claim POST /api/v1/properties/:id/claim — one-shot proportional payout.
func (h *Handlers) Claim(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := paramID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	paid, err := h.Service.Claim(c.Context(), actor.AccountID, propertyID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Dividends claimed", fiber.Map{
		"property_id": propertyID,
		"amount":      paid,
	}, nil)
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPropertyNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, domain.ErrNoDividends),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInsufficientFunds):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
