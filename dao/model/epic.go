package model

import (
	"time"

	"gorm.io/gorm"
)

// Epic is a long-running theme of work owning tasks within a project.
type Epic struct {
	gorm.Model
	ProjectID   uint       `gorm:"index;not null"`
	Name        string     `gorm:"type:varchar(64);not null;comment:epic name"`
	Description *string    `gorm:"type:varchar(256);comment:epic description"`
	Status      EpicStatus `gorm:"not null;comment:epic status (open, in progress, done)"`
	StartDate   *time.Time `gorm:"comment:optional start"`
	EndDate     *time.Time `gorm:"comment:optional end"`
}
