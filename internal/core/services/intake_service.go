package services

import (
	"context"
	"errors"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
)

type TaskIntakeServiceConfig struct {
	Repository ports.TaskRepository
	Notifier   ports.Notifier
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	// Location reads due_at values that carry no UTC offset.
	Location *time.Location
	Now      func() time.Time
}

type TaskIntakeService struct {
	repo     ports.TaskRepository
	notifier ports.Notifier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewTaskIntakeService(cfg TaskIntakeServiceConfig) *TaskIntakeService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TaskIntakeService{
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		loc:      loc,
		now:      now,
	}
}

// Validate applies the intake checks in order; the first failure wins.
func (s *TaskIntakeService) Validate(input ports.CreateTaskInput, now time.Time) (domain.TaskType, time.Time, error) {
	if input.ApplicationID == "" || input.TaskType == "" || input.DueAt == "" {
		return "", time.Time{}, ErrMissingFields
	}

	taskType := domain.TaskType(input.TaskType)
	if !taskType.Valid() {
		return "", time.Time{}, ErrInvalidTaskType
	}

	due, err := ParseTimestamp(input.DueAt, s.loc)
	if err != nil {
		return "", time.Time{}, ErrInvalidDueAt
	}

	if !due.After(now) {
		return "", time.Time{}, ErrDueAtNotFuture
	}

	return taskType, due, nil
}

func (s *TaskIntakeService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	taskType, due, err := s.Validate(input, s.now())
	if err != nil {
		s.logger.Warnw("task_intake_rejected", "application_id", input.ApplicationID, "task_type", input.TaskType, "due_at", input.DueAt, "error", err)
		s.metrics.IntakeRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	task := &domain.Task{
		ApplicationID: input.ApplicationID,
		Type:          taskType,
		DueAt:         due,
		Status:        domain.TaskStatusPending,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Errorw("task_intake_create_failed", "application_id", input.ApplicationID, "error", err)
		s.metrics.IntakeFailed.Inc()
		return nil, ErrCreateFailed
	}
	if task.ID == "" {
		s.logger.Errorw("task_intake_create_failed", "application_id", input.ApplicationID, "error", "store returned no id")
		s.metrics.IntakeFailed.Inc()
		return nil, ErrCreateFailed
	}
	s.metrics.TasksCreated.Inc()
	s.logger.Infow("task_intake_create_ok", "id", task.ID, "application_id", task.ApplicationID, "type", task.Type, "due_at", FormatTimestamp(task.DueAt))

	s.notifyCreated(ctx, task)

	return task, nil
}

// notifyCreated never fails the request.
func (s *TaskIntakeService) notifyCreated(ctx context.Context, task *domain.Task) {
	if s.notifier == nil {
		return
	}

	event := domain.Event{
		Name: domain.EventTaskCreated,
		Payload: domain.TaskCreatedPayload{
			TaskID:        task.ID,
			ApplicationID: task.ApplicationID,
			TaskType:      string(task.Type),
			DueAt:         FormatTimestamp(task.DueAt),
		},
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warnw("task_intake_notify_failed", "id", task.ID, "event", event.Name, "error", err)
		s.metrics.NotifyFailed.WithLabelValues(event.Name).Inc()
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, ErrInvalidTaskType):
		return "invalid_task_type"
	case errors.Is(err, ErrInvalidDueAt):
		return "invalid_due_at"
	case errors.Is(err, ErrDueAtNotFuture):
		return "due_at_not_future"
	default:
		return "other"
	}
}
