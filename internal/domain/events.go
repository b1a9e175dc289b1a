package domain

// Realtime channel and event names
const (
	ChannelTasks = "tasks"

	EventTaskCreated   = "task.created"
	EventTodayRollover = "today.rollover"
)

// Event is a fire-and-forget broadcast on a named channel.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

type TaskCreatedPayload struct {
	TaskID        string `json:"task_id"`
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
}

type TodayRolloverPayload struct {
	Timezone string `json:"timezone"`
	Start    string `json:"start"`
	End      string `json:"end"`
}
