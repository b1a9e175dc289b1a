package ports

import (
	"context"
	"time"

	"github.com/followup/backend/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListDueBetween returns tasks with start <= due_at < end whose status is
	// not completed, in insertion order.
	ListDueBetween(ctx context.Context, start, end time.Time) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
}

// Notifier publishes best-effort events. Callers must not let a publish
// error change the outcome of the operation that triggered it.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

type TaskIntakeService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
}

type CreateTaskInput struct {
	ApplicationID string
	TaskType      string
	DueAt         string
}

type TodayService interface {
	Location() *time.Location
	DueToday(ctx context.Context, loc *time.Location) (domain.DayWindow, []domain.Task, error)
	MarkComplete(ctx context.Context, id string) error
}
