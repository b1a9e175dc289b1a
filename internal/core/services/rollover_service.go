package services

import (
	"context"
	"fmt"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
	rcron "github.com/robfig/cron/v3"
)

const DefaultRolloverSpec = "0 0 0 * * *"

type RolloverServiceConfig struct {
	Notifier ports.Notifier
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Location *time.Location
	// Spec is a seconds-enabled cron expression evaluated in Location.
	Spec string
	Now  func() time.Time
}

// RolloverService tells open dashboards that a new day started so they
// re-fetch their window.
type RolloverService struct {
	cron     *rcron.Cron
	notifier ports.Notifier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewRolloverService(cfg RolloverServiceConfig) (*RolloverService, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	spec := cfg.Spec
	if spec == "" {
		spec = DefaultRolloverSpec
	}

	s := &RolloverService{
		cron:     rcron.New(rcron.WithSeconds(), rcron.WithLocation(loc)),
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		loc:      loc,
		now:      now,
	}
	if _, err := s.cron.AddFunc(spec, func() {
		s.Announce(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("rollover: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *RolloverService) Start() {
	s.cron.Start()
	s.logger.Infow("rollover_started", "timezone", s.loc.String())
}

// Stop waits for a running announcement to finish.
func (s *RolloverService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Infow("rollover_stopped")
}

// Announce publishes the window of the day containing now. Failures are
// logged and dropped.
func (s *RolloverService) Announce(ctx context.Context) domain.DayWindow {
	window := domain.DayWindowAt(s.now(), s.loc)
	event := domain.Event{
		Name: domain.EventTodayRollover,
		Payload: domain.TodayRolloverPayload{
			Timezone: s.loc.String(),
			Start:    window.Start.Format(time.RFC3339),
			End:      window.End.Format(time.RFC3339),
		},
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warnw("rollover_notify_failed", "error", err)
		s.metrics.NotifyFailed.WithLabelValues(event.Name).Inc()
		return window
	}
	s.logger.Infow("rollover_notify_ok", "start", window.Start, "end", window.End)
	return window
}
