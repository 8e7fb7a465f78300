package model

import "gorm.io/gorm"

// Space groups projects inside an organization. A public space is
// readable by every user of the same organization without an explicit
// membership row; a private space requires one.
type Space struct {
	gorm.Model
	OrganizationID uint    `gorm:"index;not null"`
	Name           string  `gorm:"type:varchar(64);not null;comment:space name"`
	Description    *string `gorm:"type:varchar(256);comment:space description"`
	IsPublic       bool    `gorm:"type:boolean;not null;default:false;comment:readable org-wide when true"`
	Members        []SpaceMember
}

// SpaceMember grants a user an explicit role in a space. Elevated roles
// (owner, admin) are carried here even on public spaces.
type SpaceMember struct {
	gorm.Model
	SpaceID uint       `gorm:"uniqueIndex:idx_space_user;not null"`
	UserID  uint       `gorm:"uniqueIndex:idx_space_user;not null"`
	Role    MemberRole `gorm:"not null;comment:role in space (viewer, member, admin, owner)"`
}
