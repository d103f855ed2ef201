package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/services/tutor"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

type TutorService interface {
	ListTutors(ctx context.Context, role models.Role, f tutor.Filter, p utils.Pagination) (*tutor.ListResult, error)
	CreateTutorProfile(ctx context.Context, userID uuid.UUID, bio string) (*models.TutorProfile, error)
	UpdateTutorBio(ctx context.Context, userID uuid.UUID, bio string) (*models.TutorProfile, error)
	CreateTeachingSession(ctx context.Context, userID uuid.UUID, in tutor.TeachingSessionInput) (*models.TutorCategory, error)
	ApproveTutorProfile(ctx context.Context, status models.ProfileStatus, profileID, adminID uuid.UUID) (*models.TutorProfile, error)
	GetTutorProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error)
	GetTutorProfileByID(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error)
	GetTeachingSession(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error)
}

// DecisionNotifier is told about every committed approval decision.
type DecisionNotifier interface {
	TutorDecision(p *models.TutorProfile)
}

type TutorHandler struct {
	Service  TutorService
	Notifier DecisionNotifier
}

func NewTutorHandler(svc TutorService, notifier DecisionNotifier) *TutorHandler {
	return &TutorHandler{Service: svc, Notifier: notifier}
}

// Routes registers the static paths before /:tutorProfileId so they are not
// captured by the parameter.
func (h *TutorHandler) Routes(r fiber.Router, auth, optionalAuth fiber.Handler) {
	g := r.Group("/tutor")
	g.Get("/getAllTutors", optionalAuth, h.GetAllTutors)
	g.Get("/getMyProfile", auth, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), h.GetMyProfile)
	g.Get("/getTeachingSession", auth, h.GetTeachingSession)
	g.Post("/create", auth, middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.CreateTutorProfile)
	g.Post("/createTeachingSession", auth, h.CreateTeachingSession)
	g.Patch("/bio", auth, middleware.RequireRoles(models.RoleTutor, models.RoleAdmin), h.UpdateBio)
	g.Patch("/approve", auth, middleware.RequireRoles(models.RoleAdmin), h.ApproveTutorProfile)
	g.Get("/:tutorProfileId", h.GetTutorProfileByID)
}

type bioReq struct {
	Bio string `json:"bio"`
}

type teachingSessionReq struct {
	SubjectName     string  `json:"subjectName"`
	HourlyRate      float64 `json:"hourlyRate"`
	ExperienceYears int     `json:"experienceYears"`
	Level           string  `json:"level"`
	Bio             string  `json:"bio"`
	IsPrimary       bool    `json:"isPrimary"`
}

type approveReq struct {
	TutorProfileID string `json:"tutorProfileId"`
	Status         string `json:"status"`
}

func (h *TutorHandler) GetAllTutors(c *fiber.Ctx) error {
	filter := tutor.Filter{
		Search:      c.Query("search"),
		SubjectSlug: c.Query("subject"),
		MinPrice:    queryFloat(c, "minPrice"),
		MaxPrice:    queryFloat(c, "maxPrice"),
		MinRating:   queryFloat(c, "minRating"),
		Status:      queryStatus(c, "status"),
		IsVerified:  queryBool(c, "isVerified"),
	}
	paging := utils.Paginate(utils.PaginationQuery{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})

	result, err := h.Service.ListTutors(c.UserContext(), middleware.Role(c), filter, paging)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "All tutors retrieved successfully", result)
}

func (h *TutorHandler) CreateTutorProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req bioReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	profile, err := h.Service.CreateTutorProfile(c.UserContext(), userID, req.Bio)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK,
		"Tutor profile created successfully. You will get email once your profile is verified.", profile)
}

func (h *TutorHandler) UpdateBio(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req bioReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	profile, err := h.Service.UpdateTutorBio(c.UserContext(), userID, req.Bio)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Bio updated successfully", profile)
}

func (h *TutorHandler) CreateTeachingSession(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req teachingSessionReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	category, err := h.Service.CreateTeachingSession(c.UserContext(), userID, tutor.TeachingSessionInput{
		SubjectName:     req.SubjectName,
		HourlyRate:      req.HourlyRate,
		ExperienceYears: req.ExperienceYears,
		Level:           req.Level,
		Description:     req.Bio,
		IsPrimary:       req.IsPrimary,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Course created successfully", category)
}

func (h *TutorHandler) ApproveTutorProfile(c *fiber.Ctx) error {
	adminID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req approveReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	fields := apperr.FieldErrors{}
	profileID, err := uuid.Parse(strings.TrimSpace(req.TutorProfileID))
	if err != nil {
		fields["tutorProfileId"] = []string{"tutorProfileId must be a valid id"}
	}
	status, ok := models.ParseProfileStatus(req.Status)
	if !ok {
		fields["status"] = []string{"Status must be one of APPROVED, REJECTED, PENDING"}
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation failed", fields)
	}

	profile, err := h.Service.ApproveTutorProfile(c.UserContext(), status, profileID, adminID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Tutor %s successfully.", strings.ToLower(string(status)))
	if status != models.StatusPending {
		message = fmt.Sprintf("Tutor %s successfully and notification email queued.", strings.ToLower(string(status)))
	}
	if h.Notifier != nil {
		h.Notifier.TutorDecision(profile)
	}
	return respond(c, fiber.StatusOK, message, profile)
}

func (h *TutorHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.Service.GetTutorProfileByUserID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return apperr.NotFound("Tutor profile not found.")
	}

	switch profile.Status {
	case models.StatusPending:
		return apperr.Invalid("Your tutor profile is pending verification.")
	case models.StatusRejected:
		return apperr.Invalid("Your tutor profile application has been rejected. Please review your profile and reapply.")
	}
	return respond(c, fiber.StatusOK, "Tutor profile retrieved successfully", profile)
}

func (h *TutorHandler) GetTutorProfileByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("tutorProfileId"))
	if err != nil {
		return apperr.NotFound("Tutor not found")
	}

	profile, err := h.Service.GetTutorProfileByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if profile == nil {
		return apperr.NotFound("Tutor not found")
	}
	if !profile.IsPublic() {
		return apperr.Forbidden("Tutor profile is not publicly available")
	}
	return respond(c, fiber.StatusOK, "Tutor retrieved successfully", profile)
}

func (h *TutorHandler) GetTeachingSession(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.Service.GetTeachingSession(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return apperr.NotFound("Tutor profile not found for the user")
	}
	return respond(c, fiber.StatusOK, "Teaching session retrieved successfully", profile.TutorCategories)
}

// queryFloat treats absent, non-numeric and non-finite values as not provided.
func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func queryBool(c *fiber.Ctx, key string) *bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func queryStatus(c *fiber.Ctx, key string) *models.ProfileStatus {
	s, ok := models.ParseProfileStatus(c.Query(key))
	if !ok {
		return nil
	}
	return &s
}
