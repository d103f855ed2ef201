package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
)

type HealthHandler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

// Health reports 503 when the database or redis does not answer within 2s.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok", "redis": "ok"}
	healthy := true

	if h.DB != nil {
		if err := db.Ping(ctx, h.DB); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
	}
	if h.RDB != nil {
		if err := h.RDB.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"success": healthy, "checks": checks})
}
