package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/middleware"
)

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalid:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every failure as {"success":false,"message":...}.
// Internal errors are logged with their cause and reported generically.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := fiber.Map{"success": false}
		status := fiber.StatusInternalServerError

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = statusOf(ae.Kind)
			body["message"] = ae.Message
			if len(ae.Fields) > 0 {
				body["errors"] = ae.Fields
			}
		case errors.As(err, &fe):
			status = fe.Code
			body["message"] = fe.Message
		default:
			body["message"] = "Internal server error"
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(body)
	}
}
