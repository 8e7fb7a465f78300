package model

import (
	"time"

	"gorm.io/gorm"
)

// Invitation invites an email address into an organization, optionally
// directly into a project. Acceptance creates the user and membership
// row and flips the status in one transaction.
type Invitation struct {
	gorm.Model
	OrganizationID uint             `gorm:"index;not null"`
	ProjectID      *uint            `gorm:"index;comment:optional target project"`
	Email          string           `gorm:"index;type:varchar(128);not null"`
	Role           MemberRole       `gorm:"not null;comment:role granted on acceptance"`
	Token          string           `gorm:"uniqueIndex;type:varchar(64);not null;comment:opaque accept token"`
	Status         InvitationStatus `gorm:"not null"`
	ExpiresAt      time.Time        `gorm:"not null"`
	InvitedByID    uint             `gorm:"not null;comment:inviting user"`
}
