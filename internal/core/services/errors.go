package services

import "errors"

// Intake validation errors, in the order they are checked
var (
	ErrMissingFields   = errors.New("intake: missing required fields")
	ErrInvalidTaskType = errors.New("intake: invalid task type")
	ErrInvalidDueAt    = errors.New("intake: invalid due_at timestamp")
	ErrDueAtNotFuture  = errors.New("intake: due_at must be in the future")
)

// ErrCreateFailed hides the store error from callers; the cause is logged.
var ErrCreateFailed = errors.New("intake: failed to create task")

// Today view errors
var (
	ErrInvalidTaskID = errors.New("today: invalid task id")
	ErrTaskNotFound  = errors.New("today: task not found")
)

// IsValidationError reports whether err is a client input error from intake.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidTaskType) ||
		errors.Is(err, ErrInvalidDueAt) ||
		errors.Is(err, ErrDueAtNotFuture)
}
