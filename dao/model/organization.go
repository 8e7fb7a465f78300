package model

import "gorm.io/gorm"

// Organization is the tenant boundary. Every space, project and task
// belongs to exactly one organization through its parents.
type Organization struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;type:varchar(64);not null;comment:organization name"`
	Users []User
}
