package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTutor   Role = "TUTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return r, true
	}
	return "", false
}

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	Image         string    `gorm:"type:text;not null;default:''" json:"image,omitempty"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'STUDENT';index" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// tutor_profiles.user_id -> users.id
	TutorProfile *TutorProfile `gorm:"foreignKey:UserID;references:ID" json:"tutorProfile,omitempty"`
}
