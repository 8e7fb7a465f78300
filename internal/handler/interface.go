package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/atelier-hq/workplane/pkg/access"
	"github.com/atelier-hq/workplane/pkg/alert"
	"github.com/atelier-hq/workplane/pkg/analytics"
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

// Manager is implemented by every route handler group.
type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies handed to each manager
// constructor.
type RegisterConfig struct {
	Resolver   *access.Resolver
	Aggregator *analytics.Aggregator
	Alerter    alert.AlertInterface
	FileStore  filestore.Service

	Organizations organizationdb.DBService
	Users         userdb.DBService
	Spaces        spacedb.DBService
	Projects      projectdb.DBService
	Sprints       sprintdb.DBService
	Epics         epicdb.DBService
	Tasks         taskdb.DBService
	Invitations   invitationdb.DBService
	Notifications notificationdb.DBService
}

// Registers collects the manager constructors; each handler file
// appends its own in init().
var Registers []func(*RegisterConfig) Manager
