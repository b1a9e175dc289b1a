package main

import (
	"fmt"
	"time"

	"github.com/followup/backend/internal/config"
	"github.com/followup/backend/internal/core/services"
	"github.com/followup/backend/internal/infrastructure/db"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
	"github.com/followup/backend/internal/infrastructure/realtime"
	"gorm.io/gorm"
)

// Runtime bundles what a command needs. Close releases the database.
type Runtime struct {
	DB       *gorm.DB
	Intake   *services.TaskIntakeService
	Today    *services.TodayService
	Location *time.Location
	Close    func() error
}

// RuntimeFactory builds a Runtime from a config path (injectable for tests).
type RuntimeFactory func(configPath string) (*Runtime, error)

func defaultRuntimeFactory(configPath string) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	database, err := db.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	rt := NewRuntime(database, log, loc, time.Now)
	rt.Close = func() error {
		log.Sync()
		return db.Close(database)
	}
	return rt, nil
}

// NewRuntime wires services over an open database. The CLI has no realtime
// subscribers, so task.created goes to a hub nobody listens on.
func NewRuntime(database *gorm.DB, log *logger.Logger, loc *time.Location, now func() time.Time) *Runtime {
	repo := db.NewTaskRepository(database, log)
	m := metrics.New()
	hub := realtime.NewHub("tasks", 1, log)

	return &Runtime{
		DB: database,
		Intake: services.NewTaskIntakeService(services.TaskIntakeServiceConfig{
			Repository: repo,
			Notifier:   hub,
			Metrics:    m,
			Logger:     log,
			Location:   loc,
			Now:        now,
		}),
		Today: services.NewTodayService(services.TodayServiceConfig{
			Repository: repo,
			Metrics:    m,
			Logger:     log,
			Location:   loc,
			Now:        now,
		}),
		Location: loc,
		Close:    func() error { return nil },
	}
}
