package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification kinds emitted by the alert fan-out.
const (
	NotifyTaskAssigned      = "TASK_ASSIGNED"
	NotifyTaskCompleted     = "TASK_COMPLETED"
	NotifyCommentAdded      = "COMMENT_ADDED"
	NotifyMemberAdded       = "MEMBER_ADDED"
	NotifySprintCompleted   = "SPRINT_COMPLETED"
	NotifyInvitationCreated = "INVITATION_CREATED"
)

// Notification is a per-user inbox entry. Payload carries the
// kind-specific detail rendered by the frontend.
type Notification struct {
	gorm.Model
	UserID  uint           `gorm:"index;not null"`
	Kind    string         `gorm:"type:varchar(32);not null"`
	Payload datatypes.JSON `gorm:"comment:kind-specific payload"`
	ReadAt  *time.Time     `gorm:"comment:set when the user reads the entry"`
}
