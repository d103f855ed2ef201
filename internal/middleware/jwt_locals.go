package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

const (
	LocalUserID = "userId"
	LocalRole   = "role"
)

// UserID returns the authenticated user, if any.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Role returns "" for anonymous callers.
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}
