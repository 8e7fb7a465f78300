package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task is the atomic unit of work. ParentTaskID supports exactly one
// level of subtasks; a subtask cannot itself have children.
type Task struct {
	gorm.Model
	ProjectID    uint         `gorm:"index;not null"`
	Title        string       `gorm:"type:varchar(128);not null;comment:task title"`
	Description  *string      `gorm:"type:text;comment:task description"`
	Status       TaskStatus   `gorm:"index;not null;comment:task status (pending, in progress, completed)"`
	Priority     TaskPriority `gorm:"not null;comment:task priority"`
	DueDate      *time.Time   `gorm:"comment:optional due date"`
	AssigneeID   *uint        `gorm:"index;comment:assigned user"`
	SprintID     *uint        `gorm:"index;comment:owning sprint"`
	EpicID       *uint        `gorm:"index;comment:owning epic"`
	ParentTaskID *uint        `gorm:"index;comment:parent task for subtasks"`
	Comments     []Comment
	Attachments  []Attachment
}

// Comment is an authored note on a task. Access mirrors the parent
// task's project membership.
type Comment struct {
	gorm.Model
	TaskID uint   `gorm:"index;not null"`
	UserID uint   `gorm:"not null;comment:author"`
	Body   string `gorm:"type:text;not null"`
}

// Attachment is an uploaded file bound to a task. Deletable by its
// author or by an organization admin.
type Attachment struct {
	gorm.Model
	TaskID      uint   `gorm:"index;not null"`
	UserID      uint   `gorm:"not null;comment:uploader"`
	FileName    string `gorm:"type:varchar(256);not null;comment:original file name"`
	FileKey     string `gorm:"type:varchar(128);not null;comment:storage key"`
	URL         string `gorm:"type:varchar(512);not null;comment:download url"`
	ContentType string `gorm:"type:varchar(128);not null"`
	Size        int64  `gorm:"not null;comment:size in bytes"`
}

// AuditLog records a mutation on a task with its author and a free-form
// JSON detail payload.
type AuditLog struct {
	gorm.Model
	TaskID uint           `gorm:"index;not null"`
	UserID uint           `gorm:"not null;comment:actor"`
	Action string         `gorm:"type:varchar(64);not null;comment:action name (created, status_changed, ...)"`
	Detail datatypes.JSON `gorm:"comment:action detail"`
}
