package model

import (
	"gorm.io/gorm"
)

// User is the basic entity of the system. A user belongs to exactly one
// organization; finer-grained access is granted through SpaceMember and
// ProjectMember rows.
type User struct {
	gorm.Model
	Name           string  `gorm:"type:varchar(32);not null;comment:display name"`
	Email          string  `gorm:"uniqueIndex;type:varchar(128);not null;comment:login email"`
	Nickname       *string `gorm:"type:varchar(32);comment:optional nickname"`
	Password       *string `gorm:"type:varchar(128);comment:bcrypt hash"`
	OrganizationID uint    `gorm:"index;not null"`
	Role           Role    `gorm:"not null;comment:organization role (read-only, member, admin)"`
	Status         Status  `gorm:"not null;comment:user status (pending, active, inactive)"`
}
