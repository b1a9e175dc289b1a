package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type TaskType string

const (
	TaskTypeCall   TaskType = "call"
	TaskTypeEmail  TaskType = "email"
	TaskTypeReview TaskType = "review"
)

var taskTypes = map[TaskType]struct{}{
	TaskTypeCall:   {},
	TaskTypeEmail:  {},
	TaskTypeReview: {},
}

func (t TaskType) Valid() bool {
	_, ok := taskTypes[t]
	return ok
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// ==================== ENTITIES ====================

// Task is a follow-up action on an application. DueAt is stored in UTC and
// never changes after creation; Status only moves pending -> completed.
type Task struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID string     `gorm:"not null;index" json:"application_id"`
	Type          TaskType   `gorm:"size:20;not null" json:"type"`
	DueAt         time.Time  `gorm:"not null" json:"due_at"`
	Status        TaskStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	return nil
}

// ==================== WINDOWS ====================

// DayWindow is the half-open interval [Start, End) covering one calendar day
// in some location.
type DayWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayWindowAt returns the window of the calendar day containing now, as seen
// from loc. End is midnight of the next date, so a DST day spans 23 or 25
// hours of absolute time.
func DayWindowAt(now time.Time, loc *time.Location) DayWindow {
	local := now.In(loc)
	y, m, d := local.Date()
	return DayWindow{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
