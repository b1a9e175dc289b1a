package handlers

import (
	"errors"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/core/services"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

type TodayHandler struct {
	service ports.TodayService
	logger  *logger.Logger
}

func NewTodayHandler(service ports.TodayService, logger *logger.Logger) *TodayHandler {
	return &TodayHandler{service: service, logger: logger}
}

func (h *TodayHandler) GetToday(c *fiber.Ctx) error {
	loc, err := resolveLocation(c, h.service.Location())
	if err != nil {
		h.logger.Warnw("today_invalid_timezone", "tz", c.Query("tz"), "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid tz"})
	}

	window, tasks, err := h.service.DueToday(c.UserContext(), loc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.TodayResponse{
		Timezone: loc.String(),
		Start:    window.Start,
		End:      window.End,
		Tasks:    dto.TasksToResponse(tasks),
	})
}

func (h *TodayHandler) CompleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.MarkComplete(c.UserContext(), id); err != nil {
		return c.Status(completeStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.CompleteTaskResponse{Success: true})
}

func completeStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidTaskID):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrTaskNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// resolveLocation honours ?tz= and otherwise falls back to the configured
// calendar. "Local" is rejected like an unknown zone.
func resolveLocation(c *fiber.Ctx, fallback *time.Location) (*time.Location, error) {
	name := c.Query("tz")
	if name == "" {
		return fallback, nil
	}
	return domain.LoadLocation(name)
}
