package notification

import (
	"context"
	"time"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
)

type DBService interface {
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, n *model.Notification) error {
	return query.GetDB().WithContext(ctx).Create(n).Error
}

func (s *service) ListForUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := query.GetDB().WithContext(ctx).
		Where("user_id = ?", userID).Order("id DESC").Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *service) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).Count(&count).Error
	return count, err
}

func (s *service) MarkRead(ctx context.Context, id, userID uint) error {
	now := time.Now()
	return query.GetDB().WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", &now).Error
}

func (s *service) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now()
	return query.GetDB().WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now).Error
}
