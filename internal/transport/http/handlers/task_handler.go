package handlers

import (
	"encoding/json"
	"errors"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/core/services"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

// Wire messages for intake failures
const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingFields    = "Missing required fields"
	msgInvalidTaskType  = "Invalid task_type"
	msgInvalidDueAt     = "Invalid due_at timestamp"
	msgDueAtNotFuture   = "due_at must be in the future"
	msgCreateFailed     = "Failed to create task"
	msgInternal         = "Internal server error"
)

var intakeMessages = []struct {
	err error
	msg string
}{
	{services.ErrMissingFields, msgMissingFields},
	{services.ErrInvalidTaskType, msgInvalidTaskType},
	{services.ErrInvalidDueAt, msgInvalidDueAt},
	{services.ErrDueAtNotFuture, msgDueAtNotFuture},
}

type TaskHandler struct {
	intake ports.TaskIntakeService
	logger *logger.Logger
}

func NewTaskHandler(intake ports.TaskIntakeService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{intake: intake, logger: logger}
}

// CreateTask is mounted for every method so that anything but POST gets a
// JSON 405 instead of the router's plain 404/405.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		h.logger.Warnw("task_create_method_not_allowed", "method", c.Method())
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Error: msgMethodNotAllowed})
	}

	var req dto.CreateTaskRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		h.logger.Errorw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: msgInternal})
	}

	h.logger.Infow("task_create_request", "application_id", req.ApplicationID, "task_type", req.TaskType, "due_at", req.DueAt)
	task, err := h.intake.CreateTask(c.UserContext(), req.ToInput())
	if err != nil {
		for _, m := range intakeMessages {
			if errors.Is(err, m.err) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: m.msg})
			}
		}
		if errors.Is(err, services.ErrCreateFailed) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: msgCreateFailed})
		}
		h.logger.Errorw("task_create_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: msgInternal})
	}

	h.logger.Infow("task_create_success", "id", task.ID)
	return c.Status(fiber.StatusOK).JSON(dto.CreateTaskResponse{Success: true, TaskID: task.ID})
}
