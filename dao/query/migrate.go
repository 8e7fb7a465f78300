package query

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
)

// Migrate runs schema migrations. The initial migration auto-migrates
// every model; later schema changes get their own migration IDs.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301-init",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.Organization{},
					&model.User{},
					&model.Space{},
					&model.SpaceMember{},
					&model.Project{},
					&model.ProjectMember{},
					&model.Sprint{},
					&model.SprintMetric{},
					&model.Epic{},
					&model.Task{},
					&model.Comment{},
					&model.Attachment{},
					&model.AuditLog{},
					&model.Invitation{},
					&model.Notification{},
				)
			},
		},
	})
	return m.Migrate()
}
