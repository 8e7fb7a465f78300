package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/datatypes"

	"github.com/atelier-hq/workplane/dao/model"
	notificationdb "github.com/atelier-hq/workplane/pkg/db/notification"
	"github.com/atelier-hq/workplane/pkg/logutils"
)

type alertMgr struct {
	notifications notificationdb.DBService
	handlers      []alertHandlerInterface
	hub           *Hub
}

var (
	once    sync.Once
	alerter *alertMgr
)

func GetAlertMgr() AlertInterface {
	once.Do(func() {
		alerter = initAlertMgr()
	})
	return alerter
}

func initAlertMgr() *alertMgr {
	var handlers []alertHandlerInterface
	if smtpHandler := newSMTPAlerter(); smtpHandler != nil {
		handlers = append(handlers, smtpHandler)
	}
	if webhookHandler := newWebhookAlerter(); webhookHandler != nil {
		handlers = append(handlers, webhookHandler)
	}
	return &alertMgr{
		notifications: notificationdb.NewDBService(),
		handlers:      handlers,
		hub:           GetHub(),
	}
}

// notify persists the inbox row, pushes to any live websocket and
// mirrors the message to every delivery channel. It runs detached from
// the request; the request context may already be gone.
func (m *alertMgr) notify(userID uint, email, kind, subject, body string, payload map[string]any) {
	ctx := context.Background()

	raw, err := json.Marshal(payload)
	if err != nil {
		logutils.Log.Error("marshal notification payload: ", err)
		return
	}
	n := &model.Notification{
		UserID:  userID,
		Kind:    kind,
		Payload: datatypes.JSON(raw),
	}
	if err := m.notifications.Create(ctx, n); err != nil {
		logutils.Log.WithFields(logutils.Fields{"user": userID, "kind": kind}).
			Error("store notification: ", err)
	}

	m.hub.Publish(userID, n)

	for _, h := range m.handlers {
		if email == "" {
			continue
		}
		if err := h.SendMessageTo(ctx, email, subject, body); err != nil {
			logutils.Log.WithFields(logutils.Fields{"user": userID, "kind": kind}).
				Error("deliver notification: ", err)
		}
	}
}

func (m *alertMgr) TaskAssigned(_ context.Context, task *model.Task, assignee *model.User, actorName string) {
	go m.notify(assignee.ID, assignee.Email, model.NotifyTaskAssigned,
		"Task assigned: "+task.Title,
		fmt.Sprintf("%s assigned you the task %q.", actorName, task.Title),
		map[string]any{"taskId": task.ID, "projectId": task.ProjectID, "actor": actorName})
}

func (m *alertMgr) TaskCompleted(_ context.Context, task *model.Task, recipient *model.User, actorName string) {
	go m.notify(recipient.ID, recipient.Email, model.NotifyTaskCompleted,
		"Task completed: "+task.Title,
		fmt.Sprintf("%s completed the task %q.", actorName, task.Title),
		map[string]any{"taskId": task.ID, "projectId": task.ProjectID, "actor": actorName})
}

func (m *alertMgr) CommentAdded(_ context.Context, task *model.Task, recipient *model.User, authorName string) {
	go m.notify(recipient.ID, recipient.Email, model.NotifyCommentAdded,
		"New comment on "+task.Title,
		fmt.Sprintf("%s commented on %q.", authorName, task.Title),
		map[string]any{"taskId": task.ID, "author": authorName})
}

func (m *alertMgr) MemberAdded(_ context.Context, projectName string, recipient *model.User, role model.MemberRole) {
	go m.notify(recipient.ID, recipient.Email, model.NotifyMemberAdded,
		"Added to project "+projectName,
		fmt.Sprintf("You were added to the project %q.", projectName),
		map[string]any{"project": projectName, "role": role})
}

func (m *alertMgr) SprintCompleted(_ context.Context, sprint *model.Sprint, recipients []model.User) {
	for i := range recipients {
		r := recipients[i]
		go m.notify(r.ID, r.Email, model.NotifySprintCompleted,
			"Sprint completed: "+sprint.Name,
			fmt.Sprintf("The sprint %q was completed.", sprint.Name),
			map[string]any{"sprintId": sprint.ID, "projectId": sprint.ProjectID})
	}
}

func (m *alertMgr) InvitationCreated(_ context.Context, inv *model.Invitation, inviterName string) {
	// The invitee has no user row yet; only the email channels fire.
	go func() {
		ctx := context.Background()
		subject := "You have been invited to Workplane"
		body := fmt.Sprintf("%s invited you. Use the token %s to accept.", inviterName, inv.Token)
		for _, h := range m.handlers {
			if err := h.SendMessageTo(ctx, inv.Email, subject, body); err != nil {
				logutils.Log.Error("deliver invitation: ", err)
			}
		}
	}()
}
