package model

import (
	"time"

	"gorm.io/gorm"
)

// Sprint is a time-boxed grouping of tasks used by velocity and
// burndown analytics.
type Sprint struct {
	gorm.Model
	ProjectID uint         `gorm:"index;not null"`
	Name      string       `gorm:"type:varchar(64);not null;comment:sprint name"`
	Status    SprintStatus `gorm:"not null;comment:sprint status (planning, active, completed, cancelled)"`
	StartDate *time.Time   `gorm:"comment:sprint start"`
	EndDate   *time.Time   `gorm:"comment:sprint end"`
	Metrics   []SprintMetric
}

// SprintMetric is a daily burndown snapshot. When rows exist for a
// sprint they are the authoritative burndown series; otherwise the
// series is synthesized from task state.
type SprintMetric struct {
	gorm.Model
	SprintID       uint      `gorm:"uniqueIndex:idx_sprint_date;not null"`
	Date           time.Time `gorm:"uniqueIndex:idx_sprint_date;not null;comment:snapshot day"`
	IdealRemaining int       `gorm:"not null;comment:ideal remaining tasks"`
	RemainingTasks int       `gorm:"not null;comment:actual remaining tasks"`
}
