package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/internal/resputil"
	"github.com/atelier-hq/workplane/internal/util"
	notificationdb "github.com/atelier-hq/workplane/pkg/db/notification"
)

// defaultNotificationLimit bounds the inbox listing.
const defaultNotificationLimit = 50

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewNotificationMgr)
}

type NotificationMgr struct {
	name          string
	notifications notificationdb.DBService
}

func NewNotificationMgr(conf *RegisterConfig) Manager {
	return &NotificationMgr{
		name:          "notifications",
		notifications: conf.Notifications,
	}
}

func (mgr *NotificationMgr) GetName() string { return mgr.name }

func (mgr *NotificationMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *NotificationMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListNotifications)
	g.GET("/unread", mgr.UnreadCount)
	g.PUT(":id/read", mgr.MarkRead)
	g.PUT("/read-all", mgr.MarkAllRead)
}

func (mgr *NotificationMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	NotificationResp struct {
		ID        uint            `json:"id"`
		Kind      string          `json:"kind"`
		Payload   json.RawMessage `json:"payload"`
		ReadAt    *time.Time      `json:"readAt"`
		CreatedAt time.Time       `json:"createdAt"`
	}

	UnreadCountResp struct {
		Count int64 `json:"count"`
	}
)

// ListNotifications godoc
//
//	@Summary	Notification inbox
//	@Tags		Notification
//	@Produce	json
//	@Security	Bearer
//	@Param		limit	query		int	false	"max entries"	default(50)
//	@Success	200		{object}	resputil.Response[[]NotificationResp]	"entries, newest first"
//	@Router		/v1/notifications [get]
func (mgr *NotificationMgr) ListNotifications(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, ok := parseIDQuery(c, "limit")
		if !ok {
			return
		}
		limit = int(n)
	}
	entries, err := mgr.notifications.ListForUser(c, caller.UserID, limit)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, lo.Map(entries, func(n model.Notification, _ int) NotificationResp {
		return NotificationResp{
			ID:        n.ID,
			Kind:      n.Kind,
			Payload:   json.RawMessage(n.Payload),
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}))
}

// UnreadCount godoc
//
//	@Summary	Unread notification count
//	@Tags		Notification
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	resputil.Response[UnreadCountResp]	"count"
//	@Router		/v1/notifications/unread [get]
func (mgr *NotificationMgr) UnreadCount(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	count, err := mgr.notifications.CountUnread(c, caller.UserID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, UnreadCountResp{Count: count})
}

// MarkRead godoc
//
//	@Summary	Mark one notification read
//	@Tags		Notification
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"notification id"
//	@Success	200	{object}	resputil.Response[string]	"marked"
//	@Router		/v1/notifications/{id}/read [put]
func (mgr *NotificationMgr) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := util.GetToken(c).Identity()
	if err := mgr.notifications.MarkRead(c, id, caller.UserID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "marked")
}

// MarkAllRead godoc
//
//	@Summary	Mark every notification read
//	@Tags		Notification
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	resputil.Response[string]	"marked"
//	@Router		/v1/notifications/read-all [put]
func (mgr *NotificationMgr) MarkAllRead(c *gin.Context) {
	caller := util.GetToken(c).Identity()
	if err := mgr.notifications.MarkAllRead(c, caller.UserID); err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "marked")
}
