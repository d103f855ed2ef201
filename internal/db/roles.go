package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// UserRoles resolves a session's role from the users table on every request.
type UserRoles struct {
	DB *gorm.DB
}

func NewUserRoles(gdb *gorm.DB) *UserRoles {
	return &UserRoles{DB: gdb}
}

// CurrentRole fails with Unauthorized for deleted or deactivated users.
func (r *UserRoles) CurrentRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Select("id", "role", "is_active").
		Where("id = ?", userID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Unauthorized("Unauthorized")
	}
	if err != nil {
		return "", apperr.Internal("Failed to load session", err)
	}
	if !u.IsActive {
		return "", apperr.Unauthorized("Account is inactive")
	}
	return u.Role, nil
}
