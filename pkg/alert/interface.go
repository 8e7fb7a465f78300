package alert

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
)

// AlertInterface is the notification fan-out consumed by handlers.
// Every call is fire-and-forget: delivery runs detached from the
// request, failures are logged and never surface to the caller.
type AlertInterface interface {
	TaskAssigned(ctx context.Context, task *model.Task, assignee *model.User, actorName string)
	TaskCompleted(ctx context.Context, task *model.Task, recipient *model.User, actorName string)
	CommentAdded(ctx context.Context, task *model.Task, recipient *model.User, authorName string)
	MemberAdded(ctx context.Context, projectName string, recipient *model.User, role model.MemberRole)
	SprintCompleted(ctx context.Context, sprint *model.Sprint, recipients []model.User)
	InvitationCreated(ctx context.Context, inv *model.Invitation, inviterName string)
}

// alertHandlerInterface is implemented by the concrete delivery
// channels (SMTP, webhook).
type alertHandlerInterface interface {
	SendMessageTo(ctx context.Context, email, subject, body string) error
}
