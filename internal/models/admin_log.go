package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AdminAction string

const (
	ActionApproveTutor AdminAction = "APPROVE_TUTOR"
	ActionRejectTutor  AdminAction = "REJECT_TUTOR"
	ActionResetTutor   AdminAction = "RESET_TUTOR"
)

// ActionForStatus names the audit action for a tutor review decision.
func ActionForStatus(s ProfileStatus) AdminAction {
	switch s {
	case StatusApproved:
		return ActionApproveTutor
	case StatusRejected:
		return ActionRejectTutor
	default:
		return ActionResetTutor
	}
}

// AdminLog is append-only.
type AdminLog struct {
	ID       uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"adminId"`
	Action   AdminAction    `gorm:"type:varchar(50);not null" json:"action"`
	TargetID uuid.UUID      `gorm:"type:uuid;not null;index" json:"targetId"`
	Metadata datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
}
