package project

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
	"gorm.io/gorm"
)

type DBService interface {
	Create(ctx context.Context, project *model.Project, creatorID uint) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	ListForUser(ctx context.Context, userID uint) ([]model.Project, error)
	ListBySpace(ctx context.Context, spaceID uint) ([]model.Project, error)
	CountByOrganization(ctx context.Context, orgID uint) (int64, error)
	GetMember(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error)
	ListMembers(ctx context.Context, projectID uint) ([]model.ProjectMember, error)
	AddMember(ctx context.Context, member *model.ProjectMember) error
	UpdateMemberRole(ctx context.Context, projectID, userID uint, role model.MemberRole) error
	RemoveMember(ctx context.Context, projectID, userID uint) error
	CountOwners(ctx context.Context, projectID uint) (int64, error)
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

// Create inserts the project and its first member row (the creator
// becomes owner) in one transaction.
func (s *service) Create(ctx context.Context, project *model.Project, creatorID uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return tx.Create(&model.ProjectMember{
			ProjectID: project.ID,
			UserID:    creatorID,
			Role:      model.MemberRoleOwner,
		}).Error
	})
}

func (s *service) Update(ctx context.Context, project *model.Project) error {
	return query.GetDB().WithContext(ctx).Save(project).Error
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := query.GetDB().WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := query.GetDB().WithContext(ctx).
		Joins("JOIN project_members pm ON pm.project_id = projects.id AND pm.deleted_at IS NULL").
		Where("pm.user_id = ?", userID).
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

func (s *service) ListBySpace(ctx context.Context, spaceID uint) ([]model.Project, error) {
	var projects []model.Project
	err := query.GetDB().WithContext(ctx).
		Where("space_id = ?", spaceID).Order("id").Find(&projects).Error
	return projects, err
}

func (s *service) CountByOrganization(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.Project{}).
		Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}

func (s *service) GetMember(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *service) ListMembers(ctx context.Context, projectID uint) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ?", projectID).Order("id").Find(&members).Error
	return members, err
}

func (s *service) AddMember(ctx context.Context, member *model.ProjectMember) error {
	return query.GetDB().WithContext(ctx).Create(member).Error
}

func (s *service) UpdateMemberRole(ctx context.Context, projectID, userID uint, role model.MemberRole) error {
	return query.GetDB().WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

func (s *service) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return query.GetDB().WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

func (s *service) CountOwners(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, model.MemberRoleOwner).
		Count(&count).Error
	return count, err
}
