package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProfileStatus string

const (
	StatusPending  ProfileStatus = "PENDING"
	StatusApproved ProfileStatus = "APPROVED"
	StatusRejected ProfileStatus = "REJECTED"
)

// ParseProfileStatus is case-insensitive: "approved" and "APPROVED" are the same.
func ParseProfileStatus(s string) (ProfileStatus, bool) {
	switch st := ProfileStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

type TutorProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`

	Bio        string        `gorm:"type:text;not null;default:''" json:"bio"`
	IsVerified bool          `gorm:"not null;default:false;index" json:"isVerified"`
	Status     ProfileStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	AverageRating float64 `gorm:"not null;default:0" json:"averageRating"`
	TotalReviews  int     `gorm:"not null;default:0" json:"totalReviews"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TutorCategories []TutorCategory `gorm:"foreignKey:TutorProfileID" json:"tutorCategories,omitempty"`
	Reviews         []Review        `gorm:"foreignKey:TutorProfileID" json:"reviews,omitempty"`
}

// IsPublic reports whether the profile may be shown to anyone but its owner
// and admins.
func (p *TutorProfile) IsPublic() bool {
	return p.Status == StatusApproved && p.IsVerified
}
