package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

// Session describes how login tokens are minted and stored on the client.
type Session struct {
	JWTSecret  string
	ExpiresMin int
	CookieName string
	Secure     bool
}

// issue signs a token for u and sets it as an HttpOnly cookie.
func (s Session) issue(c *fiber.Ctx, u *models.User) (string, error) {
	token, err := utils.SignJWT(s.JWTSecret, u.ID.String(), string(u.Role), s.ExpiresMin)
	if err != nil {
		return "", apperr.Internal("Failed to create token", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
		MaxAge:   s.ExpiresMin * 60,
	})
	return token, nil
}

func (s Session) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
	})
}

func userView(u *models.User) fiber.Map {
	return fiber.Map{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"role":          u.Role,
		"emailVerified": u.EmailVerified,
		"image":         u.Image,
	}
}
