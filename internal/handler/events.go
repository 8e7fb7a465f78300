package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/atelier-hq/workplane/internal/util"
	"github.com/atelier-hq/workplane/pkg/alert"
	"github.com/atelier-hq/workplane/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewEventsMgr)
}

type EventsMgr struct {
	name     string
	upgrader websocket.Upgrader
}

func NewEventsMgr(_ *RegisterConfig) Manager {
	return &EventsMgr{
		name: "events",
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth happens via the bearer token; origin is not checked.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

func (mgr *EventsMgr) GetName() string { return mgr.name }

func (mgr *EventsMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *EventsMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/stream", mgr.Stream)
}

func (mgr *EventsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// Stream godoc
//
//	@Summary		Notification event stream
//	@Description	Upgrades to a websocket that pushes the caller's notifications as they happen
//	@Tags			Events
//	@Security		Bearer
//	@Success		101	"switching protocols"
//	@Router			/v1/events/stream [get]
func (mgr *EventsMgr) Stream(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	conn, err := mgr.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logutils.Log.WithError(err).Error("websocket upgrade")
		return
	}
	hub := alert.GetHub()
	hub.Register(caller.UserID, conn)
	defer func() {
		hub.Unregister(caller.UserID, conn)
		conn.Close()
	}()

	// Drain the connection; the read loop only exists to observe close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
