package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/domain"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/infrastructure/metrics"
	"github.com/followup/backend/internal/testutil"
	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodayService(repo ports.TaskRepository, m *metrics.Metrics, loc *time.Location, now func() time.Time) *TodayService {
	return NewTodayService(TodayServiceConfig{
		Repository: repo,
		Metrics:    m,
		Logger:     logger.NewNop(),
		Location:   loc,
		Now:        now,
	})
}

func seedTask(repo *fakeTaskRepo, due time.Time, status domain.TaskStatus) string {
	task := domain.Task{
		ApplicationID: "A1",
		Type:          domain.TaskTypeCall,
		DueAt:         due,
		Status:        status,
	}
	_ = repo.Create(context.Background(), &task)
	return task.ID
}

func TestDueToday_WindowBounds(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	repo := &fakeTaskRepo{}
	svc := newTodayService(repo, metrics.New(), time.UTC, func() time.Time { return now })

	window, tasks, err := svc.DueToday(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), window.End)
	assert.True(t, repo.lastStart.Equal(window.Start))
	assert.True(t, repo.lastEnd.Equal(window.End))
}

func TestDueToday_LocationOverride(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on the 20th is still the 19th in New York.
	now := time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC)
	repo := &fakeTaskRepo{}
	svc := newTodayService(repo, metrics.New(), time.UTC, func() time.Time { return now })

	window, _, err := svc.DueToday(context.Background(), ny)
	require.NoError(t, err)
	assert.True(t, window.Start.Equal(time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC)), window.Start)
	assert.True(t, window.End.Equal(time.Date(2026, 10, 20, 4, 0, 0, 0, time.UTC)), window.End)
	assert.Equal(t, time.UTC, svc.Location())
}

func TestDueToday_Membership(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	repo := &fakeTaskRepo{}
	startOfDay := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	nextMidnight := startOfDay.Add(24 * time.Hour)

	atStart := seedTask(repo, startOfDay, domain.TaskStatusPending)
	lastMs := seedTask(repo, nextMidnight.Add(-time.Millisecond), domain.TaskStatusPending)
	seedTask(repo, nextMidnight, domain.TaskStatusPending)
	seedTask(repo, startOfDay.Add(-time.Millisecond), domain.TaskStatusPending)
	seedTask(repo, startOfDay.Add(9*time.Hour), domain.TaskStatusCompleted)

	svc := newTodayService(repo, metrics.New(), time.UTC, func() time.Time { return now })
	_, tasks, err := svc.DueToday(context.Background(), nil)
	require.NoError(t, err)

	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{atStart, lastMs}, ids)
}

func TestDueToday_StoreErrorIsReturnedVerbatim(t *testing.T) {
	storeErr := errors.New("relation \"tasks\" does not exist")
	repo := &fakeTaskRepo{listErr: storeErr}
	svc := newTodayService(repo, metrics.New(), time.UTC, time.Now)

	_, tasks, err := svc.DueToday(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, storeErr.Error(), err.Error())
	assert.Nil(t, tasks)
}

func TestMarkComplete(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("malformed id", func(t *testing.T) {
		svc := newTodayService(&fakeTaskRepo{}, metrics.New(), time.UTC, func() time.Time { return now })
		assert.ErrorIs(t, svc.MarkComplete(context.Background(), "not-a-uuid"), ErrInvalidTaskID)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := newTodayService(&fakeTaskRepo{}, metrics.New(), time.UTC, func() time.Time { return now })
		assert.ErrorIs(t, svc.MarkComplete(context.Background(), uuid.NewString()), ErrTaskNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		repo := &fakeTaskRepo{updateErr: storeErr}
		svc := newTodayService(repo, metrics.New(), time.UTC, func() time.Time { return now })
		assert.ErrorIs(t, svc.MarkComplete(context.Background(), uuid.NewString()), storeErr)
	})

	t.Run("pending task leaves the window", func(t *testing.T) {
		repo := &fakeTaskRepo{}
		m := metrics.New()
		id := seedTask(repo, now.Add(time.Hour), domain.TaskStatusPending)
		svc := newTodayService(repo, m, time.UTC, func() time.Time { return now })

		require.NoError(t, svc.MarkComplete(context.Background(), id))

		_, tasks, err := svc.DueToday(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		stored, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, stored.Status)
		assert.Equal(t, 1.0, promtest.ToFloat64(m.TasksCompleted))
	})
}

func TestTaskForTomorrowShowsUpAfterMidnight(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 10, 19, 16, 0, 0, 0, time.UTC))
	repo := &fakeTaskRepo{}
	m := metrics.New()

	intake := NewTaskIntakeService(TaskIntakeServiceConfig{
		Repository: repo,
		Notifier:   &fakeNotifier{},
		Metrics:    m,
		Logger:     logger.NewNop(),
		Location:   time.UTC,
		Now:        clock.Now,
	})
	today := newTodayService(repo, m, time.UTC, clock.Now)

	created, err := intake.CreateTask(context.Background(), ports.CreateTaskInput{
		ApplicationID: "A1",
		TaskType:      "call",
		DueAt:         "2026-10-20T10:00:00Z",
	})
	require.NoError(t, err)

	_, tasks, err := today.DueToday(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	clock.Advance(12 * time.Hour)

	_, tasks, err = today.DueToday(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, domain.TaskStatusPending, tasks[0].Status)
}
