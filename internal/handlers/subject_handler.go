package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

type SubjectLister interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
}

type SubjectHandler struct {
	Service SubjectLister
}

func NewSubjectHandler(svc SubjectLister) *SubjectHandler {
	return &SubjectHandler{Service: svc}
}

func (h *SubjectHandler) GetSubjects(c *fiber.Ctx) error {
	subjects, err := h.Service.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Subjects retrieved successfully", subjects)
}
