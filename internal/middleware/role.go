package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// RequireRoles must run after JWTFromRequest.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return apperr.Unauthorized("Unauthorized")
		}
		if !allowedSet[Role(c)] {
			return apperr.Forbidden("Forbidden: insufficient role")
		}
		return c.Next()
	}
}
