package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TutorProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"tutorProfileId"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"studentId"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text;not null;default:''" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Student *Reviewer `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// Reviewer is the public slice of a user shown next to a review.
type Reviewer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (Reviewer) TableName() string { return "users" }
