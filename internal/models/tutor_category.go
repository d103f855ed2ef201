package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TutorLevel string

const (
	LevelBeginner     TutorLevel = "BEGINNER"
	LevelIntermediate TutorLevel = "INTERMEDIATE"
	LevelAdvanced     TutorLevel = "ADVANCED"
	LevelExpert       TutorLevel = "EXPERT"
)

// ParseTutorLevel defaults to BEGINNER when s is blank.
func ParseTutorLevel(s string) (TutorLevel, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelBeginner, true
	}
	switch l := TutorLevel(strings.ToUpper(s)); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return l, true
	}
	return "", false
}

// TutorCategory is what a tutor teaches: one row per (profile, subject).
type TutorCategory struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TutorProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tutor_categories_profile_subject" json:"tutorProfileId"`
	SubjectID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tutor_categories_profile_subject;index" json:"subjectId"`

	HourlyRate      float64    `gorm:"type:numeric(10,2);not null;default:0" json:"hourlyRate"`
	ExperienceYears int        `gorm:"not null;default:0" json:"experienceYears"`
	Level           TutorLevel `gorm:"type:varchar(20);not null;default:'BEGINNER'" json:"level"`
	Description     string     `gorm:"type:text;not null;default:''" json:"description"`
	IsPrimary       bool       `gorm:"not null;default:false" json:"isPrimary"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Subject      *Subject      `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	TutorProfile *TutorProfile `gorm:"foreignKey:TutorProfileID" json:"tutorProfile,omitempty"`
}
