package epic

import (
	"context"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, epic *model.Epic) error
	Update(ctx context.Context, epic *model.Epic) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Epic, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Epic, error)
	// TaskCounts returns total and completed task counts for progress.
	TaskCounts(ctx context.Context, epicID uint) (total, completed int64, err error)
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, epic *model.Epic) error {
	return query.GetDB().WithContext(ctx).Create(epic).Error
}

func (s *service) Update(ctx context.Context, epic *model.Epic) error {
	return query.GetDB().WithContext(ctx).Save(epic).Error
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Delete(&model.Epic{}, id).Error
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Epic, error) {
	var epic model.Epic
	if err := query.GetDB().WithContext(ctx).First(&epic, id).Error; err != nil {
		return nil, err
	}
	return &epic, nil
}

func (s *service) ListByProject(ctx context.Context, projectID uint) ([]model.Epic, error) {
	var epics []model.Epic
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ?", projectID).Order("id").Find(&epics).Error
	return epics, err
}

func (s *service) TaskCounts(ctx context.Context, epicID uint) (total, completed int64, err error) {
	db := query.GetDB().WithContext(ctx).Model(&model.Task{})
	if err = db.Where("epic_id = ?", epicID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = query.GetDB().WithContext(ctx).Model(&model.Task{}).
		Where("epic_id = ? AND status = ?", epicID, model.TaskCompleted).
		Count(&completed).Error
	return total, completed, err
}
