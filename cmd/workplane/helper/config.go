package helper

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/atelier-hq/workplane/dao/query"
	"github.com/atelier-hq/workplane/internal/handler"
	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	"github.com/atelier-hq/workplane/pkg/analytics"
	"github.com/atelier-hq/workplane/pkg/config"
	epicdb "github.com/atelier-hq/workplane/pkg/db/epic"
	invitationdb "github.com/atelier-hq/workplane/pkg/db/invitation"
	notificationdb "github.com/atelier-hq/workplane/pkg/db/notification"
	organizationdb "github.com/atelier-hq/workplane/pkg/db/organization"
	projectdb "github.com/atelier-hq/workplane/pkg/db/project"
	spacedb "github.com/atelier-hq/workplane/pkg/db/space"
	sprintdb "github.com/atelier-hq/workplane/pkg/db/sprint"
	taskdb "github.com/atelier-hq/workplane/pkg/db/task"
	userdb "github.com/atelier-hq/workplane/pkg/db/user"
	"github.com/atelier-hq/workplane/pkg/filestore"
)

// ConfigInitializer wires the configuration and the shared services.
type ConfigInitializer struct {
	backendConfig *config.Config
}

func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment reads .debug.env and overrides the bind
// addresses when running in debug mode.
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	if err := godotenv.Load(".debug.env"); err != nil {
		return err
	}

	be := os.Getenv("WORKPLANE_BE_PORT")
	if be == "" {
		panic("WORKPLANE_BE_PORT is not set")
	}
	ms := os.Getenv("WORKPLANE_MS_PORT")
	if ms == "" {
		panic("WORKPLANE_MS_PORT is not set")
	}

	ci.backendConfig.ServerAddr = ":" + be
	ci.backendConfig.MetricsAddr = ":" + ms

	return nil
}

// InitializeRegisterConfig opens the database, runs migrations and
// builds the dependency bundle handed to every manager.
func (ci *ConfigInitializer) InitializeRegisterConfig() (*handler.RegisterConfig, error) {
	if err := query.Migrate(query.GetDB()); err != nil {
		return nil, err
	}

	projects := projectdb.NewDBService()
	spaces := spacedb.NewDBService()
	sprints := sprintdb.NewDBService()
	tasks := taskdb.NewDBService()
	users := userdb.NewDBService()

	registerConfig := &handler.RegisterConfig{
		Resolver:   access.NewResolver(projects, spaces),
		Aggregator: analytics.NewAggregator(sprints, tasks, users, projects),
		Alerter:    alert.GetAlertMgr(),
		FileStore:  filestore.NewDiskStore(),

		Organizations: organizationdb.NewDBService(),
		Users:         users,
		Spaces:        spaces,
		Projects:      projects,
		Sprints:       sprints,
		Epics:         epicdb.NewDBService(),
		Tasks:         tasks,
		Invitations:   invitationdb.NewDBService(),
		Notifications: notificationdb.NewDBService(),
	}

	return registerConfig, nil
}
