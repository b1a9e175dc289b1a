package dto

import (
	"time"

	"github.com/followup/backend/internal/domain"
)

// ViewState is what the dashboard shows. "loading" and the per-row
// "updating" hint only exist in the browser.
type ViewState string

const (
	ViewStateError     ViewState = "error"
	ViewStateEmpty     ViewState = "empty"
	ViewStatePopulated ViewState = "populated"
)

type TodayRow struct {
	ID            string
	Type          domain.TaskType
	ApplicationID string
	DueAt         string
	Status        domain.TaskStatus
}

type TodayView struct {
	State    ViewState
	Timezone string
	Date     string
	Rows     []TodayRow
	// Error replaces the list when the fetch failed.
	Error string
	// UpdateError is shown above an unchanged list when marking complete failed.
	UpdateError string
}

const displayLayout = "Jan 2, 2006 3:04 PM"

func NewTodayView(window domain.DayWindow, loc *time.Location, tasks []domain.Task, fetchErr error) TodayView {
	view := TodayView{
		Timezone: loc.String(),
		Date:     window.Start.Format("Monday, January 2, 2006"),
	}
	if fetchErr != nil {
		view.State = ViewStateError
		view.Error = fetchErr.Error()
		return view
	}
	if len(tasks) == 0 {
		view.State = ViewStateEmpty
		return view
	}

	view.State = ViewStatePopulated
	view.Rows = make([]TodayRow, len(tasks))
	for i, task := range tasks {
		view.Rows[i] = TodayRow{
			ID:            task.ID,
			Type:          task.Type,
			ApplicationID: task.ApplicationID,
			DueAt:         task.DueAt.In(loc).Format(displayLayout),
			Status:        task.Status,
		}
	}
	return view
}
