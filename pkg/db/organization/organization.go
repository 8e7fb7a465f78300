package organization

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id uint) (*model.Organization, error)
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, org *model.Organization) error {
	return query.GetDB().WithContext(ctx).Create(org).Error
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	err := query.GetDB().WithContext(ctx).First(&org, id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}
