package models

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(120);not null" json:"name"`
	Slug string    `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
