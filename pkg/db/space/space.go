package space

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
	"gorm.io/gorm"
)

type DBService interface {
	Create(ctx context.Context, space *model.Space, creatorID uint) error
	Update(ctx context.Context, space *model.Space) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Space, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]model.Space, error)
	GetMember(ctx context.Context, spaceID, userID uint) (*model.SpaceMember, error)
	ListMembers(ctx context.Context, spaceID uint) ([]model.SpaceMember, error)
	AddMember(ctx context.Context, member *model.SpaceMember) error
	UpdateMemberRole(ctx context.Context, spaceID, userID uint, role model.MemberRole) error
	RemoveMember(ctx context.Context, spaceID, userID uint) error
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

// Create inserts the space and its first member row (the creator becomes
// owner) in one transaction.
func (s *service) Create(ctx context.Context, space *model.Space, creatorID uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return err
		}
		return tx.Create(&model.SpaceMember{
			SpaceID: space.ID,
			UserID:  creatorID,
			Role:    model.MemberRoleOwner,
		}).Error
	})
}

func (s *service) Update(ctx context.Context, space *model.Space) error {
	return query.GetDB().WithContext(ctx).Save(space).Error
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("space_id = ?", id).Delete(&model.SpaceMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Space{}, id).Error
	})
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Space, error) {
	var space model.Space
	if err := query.GetDB().WithContext(ctx).First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID uint) ([]model.Space, error) {
	var spaces []model.Space
	err := query.GetDB().WithContext(ctx).
		Where("organization_id = ?", orgID).Order("id").Find(&spaces).Error
	return spaces, err
}

func (s *service) GetMember(ctx context.Context, spaceID, userID uint) (*model.SpaceMember, error) {
	var member model.SpaceMember
	err := query.GetDB().WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *service) ListMembers(ctx context.Context, spaceID uint) ([]model.SpaceMember, error) {
	var members []model.SpaceMember
	err := query.GetDB().WithContext(ctx).
		Where("space_id = ?", spaceID).Order("id").Find(&members).Error
	return members, err
}

func (s *service) AddMember(ctx context.Context, member *model.SpaceMember) error {
	return query.GetDB().WithContext(ctx).Create(member).Error
}

func (s *service) UpdateMemberRole(ctx context.Context, spaceID, userID uint, role model.MemberRole) error {
	return query.GetDB().WithContext(ctx).Model(&model.SpaceMember{}).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Update("role", role).Error
}

func (s *service) RemoveMember(ctx context.Context, spaceID, userID uint) error {
	return query.GetDB().WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Delete(&model.SpaceMember{}).Error
}
