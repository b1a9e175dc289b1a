package services

import (
	"context"
	"errors"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodayServiceConfig struct {
	Repository ports.TaskRepository
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	// Location is the default calendar used when the caller names none.
	Location *time.Location
	Now      func() time.Time
}

type TodayService struct {
	repo    ports.TaskRepository
	metrics *metrics.Metrics
	logger  *logger.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewTodayService(cfg TodayServiceConfig) *TodayService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TodayService{
		repo:    cfg.Repository,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		loc:     loc,
		now:     now,
	}
}

func (s *TodayService) Location() *time.Location {
	return s.loc
}

// DueToday lists pending tasks due in today's window as seen from loc (the
// configured location when nil). Store errors are returned unchanged.
func (s *TodayService) DueToday(ctx context.Context, loc *time.Location) (domain.DayWindow, []domain.Task, error) {
	if loc == nil {
		loc = s.loc
	}
	window := domain.DayWindowAt(s.now(), loc)

	tasks, err := s.repo.ListDueBetween(ctx, window.Start, window.End)
	if err != nil {
		s.logger.Errorw("today_list_failed", "timezone", loc.String(), "error", err)
		return window, nil, err
	}
	s.logger.Infow("today_list_ok", "timezone", loc.String(), "start", window.Start, "end", window.End, "count", len(tasks))
	return window, tasks, nil
}

// MarkComplete moves a task to completed. Callers re-fetch the window
// afterwards; nothing is cached here.
func (s *TodayService) MarkComplete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidTaskID
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.TaskStatusCompleted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Errorw("today_complete_failed", "id", id, "error", err)
		return err
	}
	s.metrics.TasksCompleted.Inc()
	s.logger.Infow("today_complete_ok", "id", id)
	return nil
}
