package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger abstracts the database ping for health checks (and test doubles).
type DBPinger interface {
	Ping() error
}

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// JSON GET /health/json — dependency status.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]string{}

	dbStatus := "ok"
	if h.DB == nil {
		dbStatus = "unconfigured"
	} else if err := h.DB.Ping(); err != nil {
		dbStatus = "down"
	}
	deps["postgres"] = dbStatus

	redisStatus := "ok"
	if h.Rdb == nil {
		redisStatus = "unconfigured"
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	}
	deps["redis"] = redisStatus

	status := "healthy"
	for _, s := range deps {
		if s == "down" {
			status = "degraded"
		}
	}

	return c.JSON(fiber.Map{
		"service":      "brickshare-api",
		"status":       status,
		"dependencies": deps,
	})
}
