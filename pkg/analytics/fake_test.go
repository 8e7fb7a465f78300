package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
)

// In-memory stand-ins for the sprint, task, user and project DB
// services. Mutating methods not exercised by the aggregator are
// minimal appends.

type fakeSprintDB struct {
	sprints map[uint]*model.Sprint
}

func newFakeSprintDB() *fakeSprintDB {
	return &fakeSprintDB{sprints: map[uint]*model.Sprint{}}
}

func (f *fakeSprintDB) add(s *model.Sprint) *model.Sprint {
	f.sprints[s.ID] = s
	return s
}

func (f *fakeSprintDB) Create(_ context.Context, s *model.Sprint) error {
	f.sprints[s.ID] = s
	return nil
}

func (f *fakeSprintDB) Update(_ context.Context, s *model.Sprint) error { return nil }

func (f *fakeSprintDB) Delete(_ context.Context, id uint) error {
	delete(f.sprints, id)
	return nil
}

func (f *fakeSprintDB) GetByID(_ context.Context, id uint) (*model.Sprint, error) {
	s, ok := f.sprints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSprintDB) GetWithMetrics(ctx context.Context, id uint) (*model.Sprint, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSprintDB) GetActiveForProject(_ context.Context, projectID uint) (*model.Sprint, error) {
	for _, s := range f.sprints {
		if s.ProjectID == projectID && s.Status == model.SprintActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSprintDB) ListByProject(_ context.Context, projectID uint) ([]model.Sprint, error) {
	return nil, nil
}

func (f *fakeSprintDB) ListRecentFinished(_ context.Context, projectID uint, limit int) ([]model.Sprint, error) {
	var out []model.Sprint
	for _, s := range f.sprints {
		if s.ProjectID != projectID {
			continue
		}
		if s.Status != model.SprintActive && s.Status != model.SprintCompleted {
			continue
		}
		out = append(out, *s)
	}
	// newest end date first, like the real query
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].EndDate.After(*out[i].EndDate) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSprintDB) ListAllActive(_ context.Context) ([]model.Sprint, error) {
	var out []model.Sprint
	for _, s := range f.sprints {
		if s.Status == model.SprintActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSprintDB) UpsertMetric(_ context.Context, m *model.SprintMetric) error {
	s, ok := f.sprints[m.SprintID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range s.Metrics {
		if s.Metrics[i].Date.Equal(m.Date) {
			s.Metrics[i] = *m
			return nil
		}
	}
	s.Metrics = append(s.Metrics, *m)
	return nil
}

type fakeTaskDB struct {
	tasks []model.Task
}

func (f *fakeTaskDB) addSprintTask(sprintID uint, status model.TaskStatus, updatedAt time.Time) {
	id := uint(len(f.tasks) + 1)
	t := model.Task{ProjectID: 1, Title: "t", Status: status, Priority: model.PriorityMedium, SprintID: &sprintID}
	t.ID = id
	t.UpdatedAt = updatedAt
	f.tasks = append(f.tasks, t)
}

func (f *fakeTaskDB) addUserTask(projectID, assignee uint, status model.TaskStatus, updatedAt time.Time) {
	id := uint(len(f.tasks) + 1)
	t := model.Task{ProjectID: projectID, Title: "t", Status: status, Priority: model.PriorityMedium, AssigneeID: &assignee}
	t.ID = id
	t.UpdatedAt = updatedAt
	f.tasks = append(f.tasks, t)
}

func (f *fakeTaskDB) Create(_ context.Context, t *model.Task) error {
	f.tasks = append(f.tasks, *t)
	return nil
}

func (f *fakeTaskDB) Update(_ context.Context, t *model.Task) error { return nil }
func (f *fakeTaskDB) Delete(_ context.Context, id uint) error       { return nil }

func (f *fakeTaskDB) GetByID(_ context.Context, id uint) (*model.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return &f.tasks[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaskDB) ListByProject(_ context.Context, projectID uint) ([]model.Task, error) {
	return nil, nil
}
func (f *fakeTaskDB) ListSubtasks(_ context.Context, parentID uint) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTaskDB) ListBySprint(_ context.Context, sprintID uint) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) count(match func(*model.Task) bool) (int64, error) {
	var n int64
	for i := range f.tasks {
		if match(&f.tasks[i]) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskDB) CountBySprint(_ context.Context, sprintID uint) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.SprintID != nil && *t.SprintID == sprintID
	})
}

func (f *fakeTaskDB) CountCompletedBySprint(_ context.Context, sprintID uint) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.SprintID != nil && *t.SprintID == sprintID && t.Status == model.TaskCompleted
	})
}

func (f *fakeTaskDB) CountCompletedBySprintAsOf(_ context.Context, sprintID uint, asOf time.Time) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.SprintID != nil && *t.SprintID == sprintID &&
			t.Status == model.TaskCompleted && !t.UpdatedAt.After(asOf)
	})
}

func matchUser(t *model.Task, userID uint, projectID *uint) bool {
	if t.AssigneeID == nil || *t.AssigneeID != userID {
		return false
	}
	return projectID == nil || t.ProjectID == *projectID
}

func (f *fakeTaskDB) CountAssignedToUser(_ context.Context, userID uint, projectID *uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return matchUser(t, userID, projectID) })
}

func (f *fakeTaskDB) CountInProgressForUser(_ context.Context, userID uint, projectID *uint) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return matchUser(t, userID, projectID) && t.Status == model.TaskInProgress
	})
}

func (f *fakeTaskDB) CountCompletedForUserBetween(
	_ context.Context, userID uint, projectID *uint, from, to time.Time,
) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return matchUser(t, userID, projectID) && t.Status == model.TaskCompleted &&
			!t.UpdatedAt.Before(from) && t.UpdatedAt.Before(to)
	})
}

func (f *fakeTaskDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return true })
}

func (f *fakeTaskDB) CountCompletedByOrganization(_ context.Context, orgID uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return t.Status == model.TaskCompleted })
}

func (f *fakeTaskDB) CountCompletedByOrganizationBetween(
	_ context.Context, orgID uint, from, to time.Time,
) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.Status == model.TaskCompleted &&
			!t.UpdatedAt.Before(from) && t.UpdatedAt.Before(to)
	})
}

func (f *fakeTaskDB) AddComment(_ context.Context, c *model.Comment) error { return nil }
func (f *fakeTaskDB) ListComments(_ context.Context, taskID uint) ([]model.Comment, error) {
	return nil, nil
}
func (f *fakeTaskDB) DeleteComment(_ context.Context, id uint) error { return nil }
func (f *fakeTaskDB) GetComment(_ context.Context, id uint) (*model.Comment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTaskDB) AddAttachment(_ context.Context, a *model.Attachment) error { return nil }
func (f *fakeTaskDB) GetAttachment(_ context.Context, id uint) (*model.Attachment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTaskDB) ListAttachments(_ context.Context, taskID uint) ([]model.Attachment, error) {
	return nil, nil
}
func (f *fakeTaskDB) DeleteAttachment(_ context.Context, id uint) error     { return nil }
func (f *fakeTaskDB) AddAuditLog(_ context.Context, e *model.AuditLog) error { return nil }
func (f *fakeTaskDB) ListAuditLogs(_ context.Context, taskID uint) ([]model.AuditLog, error) {
	return nil, nil
}

type fakeUserDB struct {
	users []model.User
}

func (f *fakeUserDB) add(id uint, name string) {
	u := model.User{Name: name, Email: name + "@example.com", OrganizationID: 1,
		Role: model.RoleMember, Status: model.StatusActive}
	u.ID = id
	f.users = append(f.users, u)
}

func (f *fakeUserDB) Create(_ context.Context, u *model.User) error { return nil }
func (f *fakeUserDB) Update(_ context.Context, u *model.User) error { return nil }

func (f *fakeUserDB) GetByID(_ context.Context, id uint) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserDB) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserDB) ListByOrganization(_ context.Context, orgID uint) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeUserDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeProjectCountDB struct {
	count int64
}

func (f *fakeProjectCountDB) Create(_ context.Context, p *model.Project, creatorID uint) error {
	return nil
}
func (f *fakeProjectCountDB) Update(_ context.Context, p *model.Project) error { return nil }
func (f *fakeProjectCountDB) Delete(_ context.Context, id uint) error          { return nil }
func (f *fakeProjectCountDB) GetByID(_ context.Context, id uint) (*model.Project, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProjectCountDB) ListForUser(_ context.Context, userID uint) ([]model.Project, error) {
	return nil, nil
}
func (f *fakeProjectCountDB) ListBySpace(_ context.Context, spaceID uint) ([]model.Project, error) {
	return nil, nil
}
func (f *fakeProjectCountDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	return f.count, nil
}
func (f *fakeProjectCountDB) GetMember(_ context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeProjectCountDB) ListMembers(_ context.Context, projectID uint) ([]model.ProjectMember, error) {
	return nil, nil
}
func (f *fakeProjectCountDB) AddMember(_ context.Context, m *model.ProjectMember) error { return nil }
func (f *fakeProjectCountDB) UpdateMemberRole(_ context.Context, projectID, userID uint, role model.MemberRole) error {
	return nil
}
func (f *fakeProjectCountDB) RemoveMember(_ context.Context, projectID, userID uint) error {
	return nil
}
func (f *fakeProjectCountDB) CountOwners(_ context.Context, projectID uint) (int64, error) {
	return 0, nil
}
