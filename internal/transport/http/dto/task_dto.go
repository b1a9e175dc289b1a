package dto

import (
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
)

type CreateTaskRequest struct {
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
}

func (r *CreateTaskRequest) ToInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		ApplicationID: r.ApplicationID,
		TaskType:      r.TaskType,
		DueAt:         r.DueAt,
	}
}

type CreateTaskResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
}

type CompleteTaskResponse struct {
	Success bool `json:"success"`
}

type TaskResponse struct {
	ID            string            `json:"id"`
	Type          domain.TaskType   `json:"type"`
	ApplicationID string            `json:"application_id"`
	DueAt         time.Time         `json:"due_at"`
	Status        domain.TaskStatus `json:"status"`
}

func TaskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Type:          task.Type,
		ApplicationID: task.ApplicationID,
		DueAt:         task.DueAt.UTC(),
		Status:        task.Status,
	}
}

func TasksToResponse(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = TaskToResponse(&tasks[i])
	}
	return responses
}

type TodayResponse struct {
	Timezone string         `json:"timezone"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Tasks    []TaskResponse `json:"tasks"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
