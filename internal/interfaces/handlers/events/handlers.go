package events

import (
	"strconv"

	eventsvc "brickshare-backend/internal/application/events"
	"brickshare-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *eventsvc.Service
}

// ListByProperty GET /api/v1/properties/:id/events — newest first.
func (h *Handlers) ListByProperty(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.ListByProperty(c.Context(), uint(id))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Events", fiber.Map{
		"events": out,
		"total":  len(out),
	}, nil)
}
