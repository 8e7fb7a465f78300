package access

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-hq/workplane/dao/model"
)

// In-memory stand-ins for the project and space DB services so the
// resolver can be exercised without a database.

type fakeProjectDB struct {
	projects map[uint]*model.Project
	members  map[[2]uint]*model.ProjectMember // (projectID, userID)
}

func newFakeProjectDB() *fakeProjectDB {
	return &fakeProjectDB{
		projects: map[uint]*model.Project{},
		members:  map[[2]uint]*model.ProjectMember{},
	}
}

func (f *fakeProjectDB) addProject(id, orgID uint) *model.Project {
	p := &model.Project{OrganizationID: orgID, SpaceID: 1, Name: "p", Status: model.StatusActive}
	p.ID = id
	f.projects[id] = p
	return p
}

func (f *fakeProjectDB) addMember(projectID, userID uint, role model.MemberRole) {
	f.members[[2]uint{projectID, userID}] = &model.ProjectMember{
		ProjectID: projectID, UserID: userID, Role: role,
	}
}

func (f *fakeProjectDB) Create(_ context.Context, p *model.Project, creatorID uint) error {
	f.projects[p.ID] = p
	f.addMember(p.ID, creatorID, model.MemberRoleOwner)
	return nil
}

func (f *fakeProjectDB) Update(_ context.Context, p *model.Project) error { return nil }

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
		if key[1] == userID && m.DeletedAt.Time.IsZero() {
			if p, ok := f.projects[key[0]]; ok {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeProjectDB) ListBySpace(_ context.Context, spaceID uint) ([]model.Project, error) {
	return nil, nil
}

func (f *fakeProjectDB) CountByOrganization(_ context.Context, orgID uint) (int64, error) {
	return int64(len(f.projects)), nil
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

func (f *fakeProjectDB) AddMember(_ context.Context, m *model.ProjectMember) error {
	f.members[[2]uint{m.ProjectID, m.UserID}] = m
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
	var count int64
	for key, m := range f.members {
		if key[0] == projectID && m.Role == model.MemberRoleOwner {
			count++
		}
	}
	return count, nil
}

type fakeSpaceDB struct {
	spaces  map[uint]*model.Space
	members map[[2]uint]*model.SpaceMember
}

func newFakeSpaceDB() *fakeSpaceDB {
	return &fakeSpaceDB{
		spaces:  map[uint]*model.Space{},
		members: map[[2]uint]*model.SpaceMember{},
	}
}

func (f *fakeSpaceDB) addSpace(id, orgID uint, public bool) *model.Space {
	sp := &model.Space{OrganizationID: orgID, Name: "s", IsPublic: public}
	sp.ID = id
	sp.CreatedAt = time.Now()
	f.spaces[id] = sp
	return sp
}

func (f *fakeSpaceDB) addMember(spaceID, userID uint, role model.MemberRole) {
	f.members[[2]uint{spaceID, userID}] = &model.SpaceMember{
		SpaceID: spaceID, UserID: userID, Role: role,
	}
}

func (f *fakeSpaceDB) Create(_ context.Context, sp *model.Space, creatorID uint) error {
	f.spaces[sp.ID] = sp
	f.addMember(sp.ID, creatorID, model.MemberRoleOwner)
	return nil
}

func (f *fakeSpaceDB) Update(_ context.Context, sp *model.Space) error { return nil }

func (f *fakeSpaceDB) Delete(_ context.Context, id uint) error {
	delete(f.spaces, id)
	return nil
}

func (f *fakeSpaceDB) GetByID(_ context.Context, id uint) (*model.Space, error) {
	sp, ok := f.spaces[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sp, nil
}

func (f *fakeSpaceDB) ListByOrganization(_ context.Context, orgID uint) ([]model.Space, error) {
	return nil, nil
}

func (f *fakeSpaceDB) GetMember(_ context.Context, spaceID, userID uint) (*model.SpaceMember, error) {
	m, ok := f.members[[2]uint{spaceID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeSpaceDB) ListMembers(_ context.Context, spaceID uint) ([]model.SpaceMember, error) {
	return nil, nil
}

func (f *fakeSpaceDB) AddMember(_ context.Context, m *model.SpaceMember) error {
	f.members[[2]uint{m.SpaceID, m.UserID}] = m
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
