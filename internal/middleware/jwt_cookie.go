package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

// RoleLookup returns the user's role as currently stored. Tokens outlive role
// changes such as tutor approval, so the claim is only used when no lookup is
// configured.
type RoleLookup interface {
	CurrentRole(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// TokenFromRequest reads the session cookie, then falls back to an
// Authorization: Bearer header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
		return tok
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// JWTFromRequest rejects the request unless it carries a valid session token.
func JWTFromRequest(secret, cookieName string, roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ParseJWT(secret, TokenFromRequest(c, cookieName))
		if err != nil {
			return apperr.Unauthorized("Unauthorized")
		}
		if err := attach(c, claims, roles); err != nil {
			return err
		}
		return c.Next()
	}
}

// OptionalJWT attaches the principal when a valid token is present and lets
// anonymous requests through untouched.
func OptionalJWT(secret, cookieName string, roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := utils.ParseJWT(secret, TokenFromRequest(c, cookieName)); err == nil {
			_ = attach(c, claims, roles)
		}
		return c.Next()
	}
}

func attach(c *fiber.Ctx, claims *utils.Claims, roles RoleLookup) error {
	uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
	if err != nil {
		return apperr.Unauthorized("Unauthorized")
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	if roles != nil {
		current, err := roles.CurrentRole(c.UserContext(), uid)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return apperr.Internal("Failed to load session", err)
			}
			return err
		}
		role = current
	}

	c.Locals(LocalUserID, uid)
	c.Locals(LocalRole, role)
	return nil
}
