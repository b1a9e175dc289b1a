package http

import (
	"time"

	"github.com/followup/backend/internal/config"
	"github.com/followup/backend/internal/core/services"
	"github.com/followup/backend/internal/infrastructure/db"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
	"github.com/followup/backend/internal/infrastructure/realtime"
	"github.com/followup/backend/internal/transport/http/handlers"
	httpmw "github.com/followup/backend/internal/transport/http/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB       *gorm.DB
	Logger   *logger.Logger
	Config   *config.Config
	Hub      *realtime.Hub
	Metrics  *metrics.Metrics
	Location *time.Location
	// Now is the clock used for validation and windows; time.Now when nil.
	Now func() time.Time
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)

	intakeService := services.NewTaskIntakeService(services.TaskIntakeServiceConfig{
		Repository: taskRepo,
		Notifier:   cfg.Hub,
		Metrics:    cfg.Metrics,
		Logger:     cfg.Logger,
		Location:   cfg.Location,
		Now:        cfg.Now,
	})

	todayService := services.NewTodayService(services.TodayServiceConfig{
		Repository: taskRepo,
		Metrics:    cfg.Metrics,
		Logger:     cfg.Logger,
		Location:   cfg.Location,
		Now:        cfg.Now,
	})

	taskHandler := handlers.NewTaskHandler(intakeService, cfg.Logger)
	todayHandler := handlers.NewTodayHandler(todayService, cfg.Logger)
	dashboardHandler := handlers.NewDashboardHandler(todayService, cfg.Logger)
	realtimeHandler := handlers.NewRealtimeHandler(cfg.Hub, cfg.Logger)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	// Realtime channel
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/"+cfg.Hub.Name(), websocket.New(realtimeHandler.Handle))

	// Creation endpoint, also reachable under the edge-function path
	app.All("/functions/v1/create-task", httpmw.AdminAuth(cfg.Config), taskHandler.CreateTask)

	// API v1 routes
	api := app.Group("/api/v1", httpmw.AdminAuth(cfg.Config))
	api.Get("/tasks/today", todayHandler.GetToday)
	api.Post("/tasks/:id/complete", todayHandler.CompleteTask)
	api.All("/tasks", taskHandler.CreateTask)

	// Dashboard
	dashboard := app.Group("/dashboard", httpmw.AdminAuth(cfg.Config))
	dashboard.Get("/today", dashboardHandler.GetToday)
	dashboard.Post("/today/:id/complete", dashboardHandler.CompleteTask)
}
