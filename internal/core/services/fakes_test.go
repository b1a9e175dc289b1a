package services

import (
	"context"
	"sync"
	"time"

	"github.com/followup/backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks []domain.Task

	createErr error
	listErr   error
	updateErr error

	lastStart, lastEnd time.Time
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTaskRepo) ListDueBetween(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastStart, r.lastEnd = start, end
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Task
	for _, t := range r.tasks {
		if !t.DueAt.Before(start) && t.DueAt.Before(end) && t.Status != domain.TaskStatusCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeTaskRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (n *fakeNotifier) Publish(ctx context.Context, event domain.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) published() []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Event(nil), n.events...)
}
