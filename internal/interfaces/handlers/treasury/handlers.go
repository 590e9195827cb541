package treasury

import (
	"errors"

	treasvc "brickshare-backend/internal/application/treasury"
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/middleware"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *treasvc.Service
}

// Fee GET /api/v1/platform/fee — current fee rate in basis points.
func (h *Handlers) Fee(c *fiber.Ctx) error {
	t, err := h.Service.Current(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Platform fee", fiber.Map{"fee_bps": t.FeeBps}, nil)
}

// Fees GET /api/v1/platform/fees — accumulated fees (cents).
func (h *Handlers) Fees(c *fiber.Ctx) error {
	t, err := h.Service.Current(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Accumulated fees", fiber.Map{"accumulated_fees": t.AccumulatedFees}, nil)
}

// UpdateFee PATCH /api/v1/platform/fee — admin only (route guard).
func (h *Handlers) UpdateFee(c *fiber.Ctx) error {
	var body struct {
		FeeBps int64 `json:"fee_bps"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	t, err := h.Service.UpdateFee(c.Context(), body.FeeBps)
	if err != nil {
		if errors.Is(err, domain.ErrFeeTooHigh) || errors.Is(err, domain.ErrInvalidValue) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Platform fee updated", fiber.Map{"fee_bps": t.FeeBps}, nil)
}

// Withdraw POST /api/v1/platform/fees/withdraw — admin only (route guard).
// A zero balance still succeeds and transfers nothing.
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	withdrawn, err := h.Service.WithdrawFees(c.Context(), actor.AccountID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Fees withdrawn", fiber.Map{"withdrawn": withdrawn}, nil)
}
