package handler

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
)

// In-memory stand-ins so the managers can be exercised through httptest
// without a database.

type fakeProjectDB struct {
	projects map[uint]*model.Project
	members  map[[2]uint]*model.ProjectMember // (projectID, userID)
	nextID   uint
}

func newFakeProjectDB() *fakeProjectDB {
	return &fakeProjectDB{
		projects: map[uint]*model.Project{},
		members:  map[[2]uint]*model.ProjectMember{},
		nextID:   1,
	}
}

func (f *fakeProjectDB) addProject(id, orgID uint) *model.Project {
	p := &model.Project{OrganizationID: orgID, SpaceID: 1, Name: "p", Status: model.StatusActive}
	p.ID = id
	f.projects[id] = p
	return p
}

func (f *fakeProjectDB) addMember(projectID, userID uint, role model.MemberRole) {
	m := &model.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	f.members[[2]uint{projectID, userID}] = m
}

func (f *fakeProjectDB) Create(_ context.Context, project *model.Project, creatorID uint) error {
	project.ID = f.nextID
	f.nextID++
	f.projects[project.ID] = project
	f.addMember(project.ID, creatorID, model.MemberRoleOwner)
	return nil
}

func (f *fakeProjectDB) Update(_ context.Context, project *model.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectDB) Delete(_ context.Context, id uint) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectDB) GetByID(_ context.Context, id uint) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProjectDB) ListForUser(_ context.Context, userID uint) ([]model.Project, error) {
	var out []model.Project
	for key, m := range f.members {
		if m.UserID != userID {
			continue
		}
		if p, ok := f.projects[key[0]]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectDB) ListBySpace(_ context.Context, spaceID uint) ([]model.Project, error) {
	var out []model.Project
	for _, p := range f.projects {
		if p.SpaceID == spaceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	var n int64
	for _, p := range f.projects {
		if p.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProjectDB) GetMember(_ context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	m, ok := f.members[[2]uint{projectID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeProjectDB) ListMembers(_ context.Context, projectID uint) ([]model.ProjectMember, error) {
	var out []model.ProjectMember
	for key, m := range f.members {
		if key[0] == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeProjectDB) AddMember(_ context.Context, member *model.ProjectMember) error {
	f.members[[2]uint{member.ProjectID, member.UserID}] = member
	return nil
}

func (f *fakeProjectDB) UpdateMemberRole(_ context.Context, projectID, userID uint, role model.MemberRole) error {
	m, ok := f.members[[2]uint{projectID, userID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Role = role
	return nil
}

func (f *fakeProjectDB) RemoveMember(_ context.Context, projectID, userID uint) error {
	delete(f.members, [2]uint{projectID, userID})
	return nil
}

func (f *fakeProjectDB) CountOwners(_ context.Context, projectID uint) (int64, error) {
	var n int64
	for key, m := range f.members {
		if key[0] == projectID && m.Role == model.MemberRoleOwner {
			n++
		}
	}
	return n, nil
}

type fakeSpaceDB struct {
	spaces  map[uint]*model.Space
	members map[[2]uint]*model.SpaceMember
	nextID  uint
}

func newFakeSpaceDB() *fakeSpaceDB {
	return &fakeSpaceDB{
		spaces:  map[uint]*model.Space{},
		members: map[[2]uint]*model.SpaceMember{},
		nextID:  1,
	}
}

func (f *fakeSpaceDB) addSpace(id, orgID uint, public bool) *model.Space {
	s := &model.Space{OrganizationID: orgID, Name: "s", IsPublic: public}
	s.ID = id
	f.spaces[id] = s
	return s
}

func (f *fakeSpaceDB) addMember(spaceID, userID uint, role model.MemberRole) {
	f.members[[2]uint{spaceID, userID}] = &model.SpaceMember{SpaceID: spaceID, UserID: userID, Role: role}
}

func (f *fakeSpaceDB) Create(_ context.Context, space *model.Space, creatorID uint) error {
	space.ID = f.nextID
	f.nextID++
	f.spaces[space.ID] = space
	f.addMember(space.ID, creatorID, model.MemberRoleOwner)
	return nil
}

func (f *fakeSpaceDB) Update(_ context.Context, space *model.Space) error {
	f.spaces[space.ID] = space
	return nil
}

func (f *fakeSpaceDB) Delete(_ context.Context, id uint) error {
	delete(f.spaces, id)
	return nil
}

func (f *fakeSpaceDB) GetByID(_ context.Context, id uint) (*model.Space, error) {
	s, ok := f.spaces[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSpaceDB) ListByOrganization(_ context.Context, orgID uint) ([]model.Space, error) {
	var out []model.Space
	for _, s := range f.spaces {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSpaceDB) GetMember(_ context.Context, spaceID, userID uint) (*model.SpaceMember, error) {
	m, ok := f.members[[2]uint{spaceID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeSpaceDB) ListMembers(_ context.Context, spaceID uint) ([]model.SpaceMember, error) {
	var out []model.SpaceMember
	for key, m := range f.members {
		if key[0] == spaceID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeSpaceDB) AddMember(_ context.Context, member *model.SpaceMember) error {
	f.members[[2]uint{member.SpaceID, member.UserID}] = member
	return nil
}

func (f *fakeSpaceDB) UpdateMemberRole(_ context.Context, spaceID, userID uint, role model.MemberRole) error {
	m, ok := f.members[[2]uint{spaceID, userID}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Role = role
	return nil
}

func (f *fakeSpaceDB) RemoveMember(_ context.Context, spaceID, userID uint) error {
	delete(f.members, [2]uint{spaceID, userID})
	return nil
}

type fakeUserDB struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserDB() *fakeUserDB {
	return &fakeUserDB{users: map[uint]*model.User{}, nextID: 1}
}

func (f *fakeUserDB) addUser(id, orgID uint, name string) *model.User {
	u := &model.User{Name: name, Email: name + "@example.com", OrganizationID: orgID,
		Role: model.RoleMember, Status: model.StatusActive}
	u.ID = id
	f.users[id] = u
	return u
}

func (f *fakeUserDB) Create(_ context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserDB) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserDB) GetByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserDB) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserDB) ListByOrganization(_ context.Context, orgID uint) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.OrganizationID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	users, _ := f.ListByOrganization(context.Background(), orgID)
	return int64(len(users)), nil
}

type fakeTaskDB struct {
	tasks       map[uint]*model.Task
	comments    map[uint]*model.Comment
	attachments map[uint]*model.Attachment
	audits      []model.AuditLog
	nextID      uint
}

func newFakeTaskDB() *fakeTaskDB {
	return &fakeTaskDB{
		tasks:       map[uint]*model.Task{},
		comments:    map[uint]*model.Comment{},
		attachments: map[uint]*model.Attachment{},
		nextID:      1,
	}
}

func (f *fakeTaskDB) Create(_ context.Context, task *model.Task) error {
	task.ID = f.nextID
	f.nextID++
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskDB) Update(_ context.Context, task *model.Task) error {
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskDB) Delete(_ context.Context, id uint) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskDB) GetByID(_ context.Context, id uint) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTaskDB) ListByProject(_ context.Context, projectID uint) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.ParentTaskID == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) ListSubtasks(_ context.Context, parentID uint) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) ListBySprint(_ context.Context, sprintID uint) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) count(match func(*model.Task) bool) (int64, error) {
	var n int64
	for _, t := range f.tasks {
		if match(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskDB) CountBySprint(_ context.Context, sprintID uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return t.SprintID != nil && *t.SprintID == sprintID })
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

func (f *fakeTaskDB) CountAssignedToUser(_ context.Context, userID uint, _ *uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return t.AssigneeID != nil && *t.AssigneeID == userID })
}

func (f *fakeTaskDB) CountInProgressForUser(_ context.Context, userID uint, _ *uint) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.AssigneeID != nil && *t.AssigneeID == userID && t.Status == model.TaskInProgress
	})
}

func (f *fakeTaskDB) CountCompletedForUserBetween(
	_ context.Context, userID uint, _ *uint, from, to time.Time,
) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.AssigneeID != nil && *t.AssigneeID == userID && t.Status == model.TaskCompleted &&
			!t.UpdatedAt.Before(from) && t.UpdatedAt.Before(to)
	})
}

func (f *fakeTaskDB) CountByOrganization(_ context.Context, _ uint) (int64, error) {
	return int64(len(f.tasks)), nil
}

func (f *fakeTaskDB) CountCompletedByOrganization(_ context.Context, _ uint) (int64, error) {
	return f.count(func(t *model.Task) bool { return t.Status == model.TaskCompleted })
}

func (f *fakeTaskDB) CountCompletedByOrganizationBetween(
	_ context.Context, _ uint, from, to time.Time,
) (int64, error) {
	return f.count(func(t *model.Task) bool {
		return t.Status == model.TaskCompleted && !t.UpdatedAt.Before(from) && t.UpdatedAt.Before(to)
	})
}

func (f *fakeTaskDB) AddComment(_ context.Context, comment *model.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeTaskDB) ListComments(_ context.Context, taskID uint) ([]model.Comment, error) {
	var out []model.Comment
	for _, m := range f.comments {
		if m.TaskID == taskID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) DeleteComment(_ context.Context, id uint) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeTaskDB) GetComment(_ context.Context, id uint) (*model.Comment, error) {
	m, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeTaskDB) AddAttachment(_ context.Context, attachment *model.Attachment) error {
	attachment.ID = f.nextID
	f.nextID++
	f.attachments[attachment.ID] = attachment
	return nil
}

func (f *fakeTaskDB) GetAttachment(_ context.Context, id uint) (*model.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeTaskDB) ListAttachments(_ context.Context, taskID uint) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range f.attachments {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeTaskDB) DeleteAttachment(_ context.Context, id uint) error {
	delete(f.attachments, id)
	return nil
}

func (f *fakeTaskDB) AddAuditLog(_ context.Context, entry *model.AuditLog) error {
	f.audits = append(f.audits, *entry)
	return nil
}

func (f *fakeTaskDB) ListAuditLogs(_ context.Context, taskID uint) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range f.audits {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeAlerter records fan-out calls instead of delivering them.
type fakeAlerter struct {
	assigned  []uint // assignee user ids
	completed []uint
	comments  []uint
}

func (f *fakeAlerter) TaskAssigned(_ context.Context, _ *model.Task, assignee *model.User, _ string) {
	f.assigned = append(f.assigned, assignee.ID)
}

func (f *fakeAlerter) TaskCompleted(_ context.Context, _ *model.Task, recipient *model.User, _ string) {
	f.completed = append(f.completed, recipient.ID)
}

func (f *fakeAlerter) CommentAdded(_ context.Context, _ *model.Task, recipient *model.User, _ string) {
	f.comments = append(f.comments, recipient.ID)
}

func (f *fakeAlerter) MemberAdded(_ context.Context, _ string, _ *model.User, _ model.MemberRole) {}

func (f *fakeAlerter) SprintCompleted(_ context.Context, _ *model.Sprint, _ []model.User) {}

func (f *fakeAlerter) InvitationCreated(_ context.Context, _ *model.Invitation, _ string) {}
