package user

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByOrganization(ctx context.Context, orgID uint) ([]model.User, error)
	CountByOrganization(ctx context.Context, orgID uint) (int64, error)
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, user *model.User) error {
	return query.GetDB().WithContext(ctx).Create(user).Error
}

func (s *service) Update(ctx context.Context, user *model.User) error {
	return query.GetDB().WithContext(ctx).Save(user).Error
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := query.GetDB().WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := query.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) ListByOrganization(ctx context.Context, orgID uint) ([]model.User, error) {
	var users []model.User
	err := query.GetDB().WithContext(ctx).
		Where("organization_id = ?", orgID).Order("id").Find(&users).Error
	return users, err
}

func (s *service) CountByOrganization(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.User{}).
		Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}
