package db

import (
	"context"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "application_id", task.ApplicationID, "type", task.Type, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID, "application_id", task.ApplicationID, "type", task.Type)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		r.log.Errorw("task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListDueBetween(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := r.db.WithContext(ctx).
		Where("due_at >= ? AND due_at < ?", start.UTC(), end.UTC()).
		Where("status <> ?", domain.TaskStatusCompleted).
		Order("created_at asc").
		Order("id asc").
		Find(&tasks).Error
	if err != nil {
		r.log.Errorw("task_repo_list_due_failed", "start", start, "end", end, "error", err)
		return nil, err
	}
	r.log.Infow("task_repo_list_due_ok", "start", start, "end", end, "count", len(tasks))
	return tasks, nil
}

// UpdateStatus returns gorm.ErrRecordNotFound when no row has the id.
func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		r.log.Errorw("task_repo_update_status_failed", "id", id, "status", status, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.log.Warnw("task_repo_update_status_missing", "id", id)
		return gorm.ErrRecordNotFound
	}
	r.log.Infow("task_repo_update_status_ok", "id", id, "status", status)
	return nil
}
