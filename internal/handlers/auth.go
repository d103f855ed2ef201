package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

const minPasswordLength = 8

type AuthHandler struct {
	DB      *gorm.DB
	Session Session
}

func NewAuthHandler(gdb *gorm.DB, session Session) *AuthHandler {
	return &AuthHandler{DB: gdb, Session: session}
}

func (h *AuthHandler) Routes(r fiber.Router, auth fiber.Handler) {
	g := r.Group("/auth")
	g.Post("/register", h.Register)
	g.Post("/login", h.Login)
	g.Post("/logout", h.Logout)
	g.Get("/me", auth, h.Me)
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterReq) validate() (name, email, password string, errs apperr.FieldErrors) {
	name = strings.TrimSpace(r.Name)
	email = strings.ToLower(strings.TrimSpace(r.Email))
	password = r.Password
	errs = apperr.FieldErrors{}

	if name == "" {
		errs["name"] = append(errs["name"], "Name is required")
	}
	if email == "" {
		errs["email"] = append(errs["email"], "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = append(errs["email"], "Email is invalid")
	}
	if strings.TrimSpace(password) == "" {
		errs["password"] = append(errs["password"], "Password is required")
	} else if len(password) < minPasswordLength {
		errs["password"] = append(errs["password"], "Password must be at least 8 characters")
	}
	return name, email, password, errs
}

// Register always creates a STUDENT. Other roles come from approval or seeding.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	name, email, password, errs := req.validate()
	if len(errs) > 0 {
		return apperr.Validation("Validation error", errs)
	}

	var existing models.User
	err := h.DB.WithContext(c.UserContext()).Select("id").Where("email = ?", email).First(&existing).Error
	if err == nil {
		return emailTaken()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("Failed to register", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return apperr.Internal("Failed to process password", err)
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleStudent,
		IsActive: true,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return emailTaken()
		}
		return apperr.Internal("Failed to register", err)
	}

	if _, err := h.Session.issue(c, &u); err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Registration successful", fiber.Map{"user": userView(&u)})
}

func emailTaken() error {
	return &apperr.Error{
		Kind:    apperr.KindConflict,
		Message: "Email is already registered",
		Fields:  apperr.FieldErrors{"email": {"Email is already registered"}},
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Invalid("Invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	errs := apperr.FieldErrors{}
	if email == "" {
		errs["email"] = append(errs["email"], "Email is required")
	}
	if req.Password == "" {
		errs["password"] = append(errs["password"], "Password is required")
	}
	if len(errs) > 0 {
		return apperr.Validation("Validation error", errs)
	}

	var u models.User
	err := h.DB.WithContext(c.UserContext()).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return apperr.Internal("Failed to login", err)
	}
	if !utils.CheckPassword(u.Password, req.Password) {
		return apperr.Unauthorized("Invalid email or password")
	}
	if !u.IsActive {
		return apperr.Forbidden("Account is inactive")
	}

	token, err := h.Session.issue(c, &u)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  userView(&u),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Session.clear(c)
	return respond(c, fiber.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var u models.User
	err = h.DB.WithContext(c.UserContext()).Preload("TutorProfile").First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Unauthorized("Unauthorized")
	}
	if err != nil {
		return apperr.Internal("Failed to load user", err)
	}

	view := userView(&u)
	if u.TutorProfile != nil {
		view["tutorProfile"] = fiber.Map{
			"id":         u.TutorProfile.ID,
			"status":     u.TutorProfile.Status,
			"isVerified": u.TutorProfile.IsVerified,
		}
	}
	return respond(c, fiber.StatusOK, "OK", fiber.Map{"user": view})
}
