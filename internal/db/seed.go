package db

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

var ErrAdminExists = errors.New("admin user already exists")

// SeedAdmin inserts a verified ADMIN account. An existing user with the same
// email is left untouched and ErrAdminExists is returned.
func SeedAdmin(ctx context.Context, gdb *gorm.DB, name, email, passwordHash string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return nil, errors.New("seed admin: email and password are required")
	}

	var created *models.User
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminExists
		}

		u := &models.User{
			Name:          name,
			Email:         email,
			EmailVerified: true,
			Password:      passwordHash,
			Role:          models.RoleAdmin,
			IsActive:      true,
		}
		if err := tx.Create(u).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrAdminExists
			}
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
