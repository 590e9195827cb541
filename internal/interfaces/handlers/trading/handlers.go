package trading

import (
	"errors"
	"strconv"

	tradesvc "brickshare-backend/internal/application/trading"
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/middleware"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *tradesvc.Service
}

// Purchase POST /api/v1/properties/:id/purchase — primary sale.
// Body: shares to buy and the payment the buyer authorizes (cents).
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Shares  int64 `json:"shares"`
		Payment int64 `json:"payment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	property, err := h.Service.Purchase(c.Context(), actor.AccountID, propertyID, body.Shares, body.Payment)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Shares purchased", property, nil)
}

// CreateOffer POST /api/v1/offers — escrow-funded secondary-market proposal.
func (h *Handlers) CreateOffer(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		PropertyID    uint  `json:"property_id"`
		Shares        int64 `json:"shares"`
		PricePerShare int64 `json:"price_per_share"`
	}
	if err := c.BodyParser(&body); err != nil || body.PropertyID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	offer, err := h.Service.CreateOffer(c.Context(), actor.AccountID, body.PropertyID, body.Shares, body.PricePerShare)
	if err != nil {
		return domainError(c, err)
	}
	return response.SuccessCreated(c, "Offer created", offer, nil)
}

// AcceptOffer POST /api/v1/offers/:id/accept — caller sells into the offer.
func (h *Handlers) AcceptOffer(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, "Invalid offer id", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.AcceptOffer(c.Context(), actor.AccountID, offerID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Offer accepted", offer, nil)
}

// CancelOffer POST /api/v1/offers/:id/cancel — buyer reclaims the escrow.
func (h *Handlers) CancelOffer(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, "Invalid offer id", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.CancelOffer(c.Context(), actor.AccountID, offerID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Offer cancelled", offer, nil)
}

// GetOffer GET /api/v1/offers/:id
func (h *Handlers) GetOffer(c *fiber.Ctx) error {
	offerID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, "Invalid offer id", fiber.StatusBadRequest, nil)
	}
	offer, err := h.Service.GetOffer(c.Context(), offerID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Offer", offer, nil)
}

// CountOffers GET /api/v1/offers/count
func (h *Handlers) CountOffers(c *fiber.Ctx) error {
	n, err := h.Service.CountOffers(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Total offers", fiber.Map{"total": n}, nil)
}

// ListPropertyOffers GET /api/v1/properties/:id/offers
func (h *Handlers) ListPropertyOffers(c *fiber.Ctx) error {
	propertyID, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	offers, err := h.Service.ListPropertyOffers(c.Context(), propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Offers", fiber.Map{
		"offers": offers,
		"total":  len(offers),
	}, nil)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPropertyNotFound), errors.Is(err, domain.ErrOfferNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, domain.ErrOfferNotActive):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidShares),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInsufficientAvailability),
		errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientShares):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
