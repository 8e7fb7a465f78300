package model

import "gorm.io/gorm"

// Project is the unit of work containing tasks, epics and sprints.
// Visibility is always membership-gated: a project does not inherit its
// space's public-access rule.
type Project struct {
	gorm.Model
	OrganizationID uint    `gorm:"index;not null"`
	SpaceID        uint    `gorm:"index;not null"`
	Name           string  `gorm:"type:varchar(64);not null;comment:project name"`
	Description    *string `gorm:"type:varchar(256);comment:project description"`
	Status         Status  `gorm:"not null;comment:project status (active, inactive)"`
	Members        []ProjectMember
}

// ProjectMember grants a user a role in a project. A project must retain
// at least one owner; member removal enforces this.
type ProjectMember struct {
	gorm.Model
	ProjectID uint       `gorm:"uniqueIndex:idx_project_user;not null"`
	UserID    uint       `gorm:"uniqueIndex:idx_project_user;not null"`
	Role      MemberRole `gorm:"not null;comment:role in project (viewer, member, admin, owner)"`
}
