package task

import (
	"context"
	"time"

	"github.com/atelier-hq/workplane/dao/model"
	"github.com/atelier-hq/workplane/dao/query"
	"gorm.io/gorm"
)

type DBService interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Task, error)
	ListSubtasks(ctx context.Context, parentID uint) ([]model.Task, error)
	ListBySprint(ctx context.Context, sprintID uint) ([]model.Task, error)

	CountBySprint(ctx context.Context, sprintID uint) (int64, error)
	CountCompletedBySprint(ctx context.Context, sprintID uint) (int64, error)
	// CountCompletedBySprintAsOf counts sprint tasks completed no later
	// than the given instant, using updated_at as the completion proxy.
	CountCompletedBySprintAsOf(ctx context.Context, sprintID uint, asOf time.Time) (int64, error)

	CountAssignedToUser(ctx context.Context, userID uint, projectID *uint) (int64, error)
	CountInProgressForUser(ctx context.Context, userID uint, projectID *uint) (int64, error)
	CountCompletedForUserBetween(ctx context.Context, userID uint, projectID *uint, from, to time.Time) (int64, error)

	CountByOrganization(ctx context.Context, orgID uint) (int64, error)
	CountCompletedByOrganization(ctx context.Context, orgID uint) (int64, error)
	CountCompletedByOrganizationBetween(ctx context.Context, orgID uint, from, to time.Time) (int64, error)

	AddComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context, taskID uint) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	GetComment(ctx context.Context, id uint) (*model.Comment, error)

	AddAttachment(ctx context.Context, attachment *model.Attachment) error
	GetAttachment(ctx context.Context, id uint) (*model.Attachment, error)
	ListAttachments(ctx context.Context, taskID uint) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, id uint) error

	AddAuditLog(ctx context.Context, entry *model.AuditLog) error
	ListAuditLogs(ctx context.Context, taskID uint) ([]model.AuditLog, error)
}

type service struct{}

func NewDBService() DBService {
	return &service{}
}

func (s *service) Create(ctx context.Context, task *model.Task) error {
	return query.GetDB().WithContext(ctx).Create(task).Error
}

func (s *service) Update(ctx context.Context, task *model.Task) error {
	return query.GetDB().WithContext(ctx).Save(task).Error
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// One level of subtasks only, so a single cascade pass suffices.
		if err := tx.Where("parent_task_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
}

func (s *service) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := query.GetDB().WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *service) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := query.GetDB().WithContext(ctx).
		Where("project_id = ? AND parent_task_id IS NULL", projectID).
		Order("id").Find(&tasks).Error
	return tasks, err
}

func (s *service) ListSubtasks(ctx context.Context, parentID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := query.GetDB().WithContext(ctx).
		Where("parent_task_id = ?", parentID).Order("id").Find(&tasks).Error
	return tasks, err
}

func (s *service) ListBySprint(ctx context.Context, sprintID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := query.GetDB().WithContext(ctx).
		Where("sprint_id = ?", sprintID).Order("id").Find(&tasks).Error
	return tasks, err
}

func (s *service) CountBySprint(ctx context.Context, sprintID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.Task{}).
		Where("sprint_id = ?", sprintID).Count(&count).Error
	return count, err
}

func (s *service) CountCompletedBySprint(ctx context.Context, sprintID uint) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.Task{}).
		Where("sprint_id = ? AND status = ?", sprintID, model.TaskCompleted).
		Count(&count).Error
	return count, err
}

func (s *service) CountCompletedBySprintAsOf(ctx context.Context, sprintID uint, asOf time.Time) (int64, error) {
	var count int64
	err := query.GetDB().WithContext(ctx).Model(&model.Task{}).
		Where("sprint_id = ? AND status = ? AND updated_at <= ?", sprintID, model.TaskCompleted, asOf).
		Count(&count).Error
	return count, err
}

func scopeUser(db *gorm.DB, userID uint, projectID *uint) *gorm.DB {
	db = db.Where("assignee_id = ?", userID)
	if projectID != nil {
		db = db.Where("project_id = ?", *projectID)
	}
	return db
}

func (s *service) CountAssignedToUser(ctx context.Context, userID uint, projectID *uint) (int64, error) {
	var count int64
	err := scopeUser(query.GetDB().WithContext(ctx).Model(&model.Task{}), userID, projectID).
		Count(&count).Error
	return count, err
}

func (s *service) CountInProgressForUser(ctx context.Context, userID uint, projectID *uint) (int64, error) {
	var count int64
	err := scopeUser(query.GetDB().WithContext(ctx).Model(&model.Task{}), userID, projectID).
		Where("status = ?", model.TaskInProgress).Count(&count).Error
	return count, err
}

func (s *service) CountCompletedForUserBetween(
	ctx context.Context, userID uint, projectID *uint, from, to time.Time,
) (int64, error) {
	var count int64
	err := scopeUser(query.GetDB().WithContext(ctx).Model(&model.Task{}), userID, projectID).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", model.TaskCompleted, from, to).
		Count(&count).Error
	return count, err
}

func scopeOrg(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Joins("JOIN projects p ON p.id = tasks.project_id AND p.deleted_at IS NULL").
		Where("p.organization_id = ?", orgID)
}

func (s *service) CountByOrganization(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := scopeOrg(query.GetDB().WithContext(ctx).Model(&model.Task{}), orgID).
		Count(&count).Error
	return count, err
}

func (s *service) CountCompletedByOrganization(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := scopeOrg(query.GetDB().WithContext(ctx).Model(&model.Task{}), orgID).
		Where("tasks.status = ?", model.TaskCompleted).Count(&count).Error
	return count, err
}

func (s *service) CountCompletedByOrganizationBetween(
	ctx context.Context, orgID uint, from, to time.Time,
) (int64, error) {
	var count int64
	err := scopeOrg(query.GetDB().WithContext(ctx).Model(&model.Task{}), orgID).
		Where("tasks.status = ? AND tasks.updated_at >= ? AND tasks.updated_at < ?",
			model.TaskCompleted, from, to).
		Count(&count).Error
	return count, err
}

func (s *service) AddComment(ctx context.Context, comment *model.Comment) error {
	return query.GetDB().WithContext(ctx).Create(comment).Error
}

func (s *service) ListComments(ctx context.Context, taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := query.GetDB().WithContext(ctx).
		Where("task_id = ?", taskID).Order("id").Find(&comments).Error
	return comments, err
}

func (s *service) DeleteComment(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Delete(&model.Comment{}, id).Error
}

func (s *service) GetComment(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := query.GetDB().WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *service) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	return query.GetDB().WithContext(ctx).Create(attachment).Error
}

func (s *service) GetAttachment(ctx context.Context, id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := query.GetDB().WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *service) ListAttachments(ctx context.Context, taskID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := query.GetDB().WithContext(ctx).
		Where("task_id = ?", taskID).Order("id").Find(&attachments).Error
	return attachments, err
}

func (s *service) DeleteAttachment(ctx context.Context, id uint) error {
	return query.GetDB().WithContext(ctx).Delete(&model.Attachment{}, id).Error
}

func (s *service) AddAuditLog(ctx context.Context, entry *model.AuditLog) error {
	return query.GetDB().WithContext(ctx).Create(entry).Error
}

func (s *service) ListAuditLogs(ctx context.Context, taskID uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := query.GetDB().WithContext(ctx).
		Where("task_id = ?", taskID).Order("id DESC").Find(&entries).Error
	return entries, err
}
