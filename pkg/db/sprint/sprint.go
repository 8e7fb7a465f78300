package sprint

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, sprint *model.Sprint) error
	Update(ctx context.Context, sprint *model.Sprint) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Sprint, error)
	GetWithMetrics(ctx context.Context, id uint) (*model.Sprint, error)
	GetActiveForProject(ctx context.Context, projectID uint) (*model.Sprint, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Sprint, error)
	// ListRecentFinished returns up to limit sprints with status active or
	// completed, most recently ending first.
	ListRecentFinished(ctx context.Context, projectID uint, limit int) ([]model.Sprint, error)
	ListAllActive(ctx context.Context) ([]model.Sprint, error)
	UpsertMetric(ctx context.Context, metric *model.SprintMetric) error
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, sprint *model.Sprint) error {
	return query.GetDB().WithContext(ctx).Create(sprint).Error
}

func (s *service) Update(ctx context.Context, sprint *model.Sprint) error {
	return query.GetDB().WithContext(ctx).Save(sprint).Error
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sprint_id = ?", id).Delete(&model.SprintMetric{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Sprint{}, id).Error
	})
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := query.GetDB().WithContext(ctx).First(&sprint, id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *service) GetWithMetrics(ctx context.Context, id uint) (*model.Sprint, error) {
	var sprint model.Sprint
	err := query.GetDB().WithContext(ctx).
		Preload("Metrics", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		First(&sprint, id).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *service) GetActiveForProject(ctx context.Context, projectID uint) (*model.Sprint, error) {
	var sprint model.Sprint
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, model.SprintActive).
		Order("id DESC").First(&sprint).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *service) ListByProject(ctx context.Context, projectID uint) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ?", projectID).Order("id").Find(&sprints).Error
	return sprints, err
}

func (s *service) ListRecentFinished(ctx context.Context, projectID uint, limit int) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ? AND status IN ?", projectID,
			[]model.SprintStatus{model.SprintActive, model.SprintCompleted}).
		Order("end_date DESC").Limit(limit).Find(&sprints).Error
	return sprints, err
}

func (s *service) ListAllActive(ctx context.Context) ([]model.Sprint, error) {
	var sprints []model.Sprint
	err := query.GetDB().WithContext(ctx).
		Where("status = ?", model.SprintActive).Find(&sprints).Error
	return sprints, err
}

// UpsertMetric writes a burndown snapshot, overwriting the counts when a
// row for the sprint and day already exists.
func (s *service) UpsertMetric(ctx context.Context, metric *model.SprintMetric) error {
	return query.GetDB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sprint_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"ideal_remaining", "remaining_tasks", "updated_at"}),
	}).Create(metric).Error
}
