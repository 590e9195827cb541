package registry

import (
	"errors"
	"strconv"

	regsvc "brickshare-backend/internal/application/registry"
	sharesvc "brickshare-backend/internal/application/shares"
	"brickshare-backend/internal/domain"
	"brickshare-backend/internal/middleware"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *regsvc.Service
	Shares  *sharesvc.Service
}

// RegisterRequest body for POST /api/v1/properties. Currency fields in cents.
type RegisterRequest struct {
	Name                string `json:"name"`
	Location            string `json:"location"`
	Category            string `json:"category"`
	TotalValue          int64  `json:"total_value"`
	TotalShares         int64  `json:"total_shares"`
	PricePerShare       int64  `json:"price_per_share"`
	MonthlyRentalIncome int64  `json:"monthly_rental_income"`
	MetadataRef         string `json:"metadata_ref"`
}

// Register POST /api/v1/properties — caller becomes the property owner.
func (h *Handlers) Register(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body RegisterRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.Name == "" || body.Location == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	property, err := h.Service.Register(c.Context(), actor.AccountID, regsvc.RegisterInput{
		Name:                body.Name,
		Location:            body.Location,
		Category:            domain.PropertyCategory(body.Category),
		TotalValue:          body.TotalValue,
		TotalShares:         body.TotalShares,
		PricePerShare:       body.PricePerShare,
		MonthlyRentalIncome: body.MonthlyRentalIncome,
		MetadataRef:         body.MetadataRef,
	})
	if err != nil {
		return domainError(c, err)
	}
	return response.SuccessCreated(c, "Property registered", property, nil)
}

// Verify POST /api/v1/properties/:id/verify — admin only (route guard).
func (h *Handlers) Verify(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	id, err := propertyID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.Verify(c.Context(), actor.AccountID, id)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Property verified", property, nil)
}

// UpdateStatus PATCH /api/v1/properties/:id/status — admin only (route guard).
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.UpdateStatus(c.Context(), id, domain.PropertyStatus(body.Status))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Status updated", property, nil)
}

// Get GET /api/v1/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Property", property, nil)
}

// List GET /api/v1/properties
func (h *Handlers) List(c *fiber.Ctx) error {
	properties, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties", fiber.Map{
		"properties": properties,
		"total":      len(properties),
	}, nil)
}

// Count GET /api/v1/properties/count
func (h *Handlers) Count(c *fiber.Ctx) error {
	n, err := h.Service.Count(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Total properties", fiber.Map{"total": n}, nil)
}

// ListByOwner GET /api/v1/accounts/:id/properties
func (h *Handlers) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid account id", fiber.StatusBadRequest, nil)
	}
	properties, err := h.Service.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties", fiber.Map{
		"properties": properties,
		"total":      len(properties),
	}, nil)
}

// DeedOwner GET /api/v1/properties/:id/deed
func (h *Handlers) DeedOwner(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	ownerID, err := h.Service.DeedOwner(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Deed owner", fiber.Map{
		"property_id": id,
		"owner_id":    ownerID,
	}, nil)
}

// DeedCount GET /api/v1/accounts/:id/deeds
func (h *Handlers) DeedCount(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid account id", fiber.StatusBadRequest, nil)
	}
	n, err := h.Service.DeedCount(c.Context(), accountID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Deed count", fiber.Map{
		"account_id": accountID,
		"deeds":      n,
	}, nil)
}

// UserShares GET /api/v1/properties/:id/shares/:account
func (h *Handlers) UserShares(c *fiber.Ctx) error {
	id, err := propertyID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	accountID, err := uuid.Parse(c.Params("account"))
	if err != nil {
		return response.Error(c, "Invalid account id", fiber.StatusBadRequest, nil)
	}
	n, err := h.Shares.GetUserShares(c.Context(), id, accountID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, "Shares", fiber.Map{
		"property_id": id,
		"account_id":  accountID,
		"shares":      n,
	}, nil)
}

func propertyID(c *fiber.Ctx) (uint, error) {
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
	case errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrInvalidShares):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, err.Error())
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
