package scheduler

import "errors"

var (
	// ErrNotInitialized is returned when a method is called on a nil or
	// zero Scheduler.
	ErrNotInitialized = errors.New("scheduler: not initialized")

	// ErrInvalidInterval is returned when an interval job is registered with
	// a non-positive interval.
	ErrInvalidInterval = errors.New("scheduler: interval must be greater than zero")
)
