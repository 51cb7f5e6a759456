package scheduler

import "strconv"

// queueFullError signals admission rejection for 429 mapping.
type queueFullError struct{ capacity int }

func (e queueFullError) Error() string {
	return "queue full: capacity " + strconv.Itoa(e.capacity) + " exceeded"
}

// ErrQueueFull constructs a queueFullError for the given capacity.
func ErrQueueFull(capacity int) error { return queueFullError{capacity: capacity} }

// IsQueueFull reports whether err indicates admission backpressure.
func IsQueueFull(err error) bool {
	_, ok := err.(queueFullError)
	return ok
}

// jobNotFoundError is returned when an id matches neither the current job,
// the history, nor the pending queue. Deliberately ambiguous: the job may
// never have existed or may have been evicted from history.
type jobNotFoundError struct{ id string }

func (e jobNotFoundError) Error() string { return "job not found: " + e.id }

// ErrJobNotFound constructs a jobNotFoundError.
func ErrJobNotFound(id string) error { return jobNotFoundError{id: id} }

// IsJobNotFound reports whether the error indicates an unknown job id.
func IsJobNotFound(err error) bool {
	_, ok := err.(jobNotFoundError)
	return ok
}

// shuttingDownError signals that admissions have stopped.
type shuttingDownError struct{}

func (shuttingDownError) Error() string { return "scheduler is shutting down" }

// ErrShuttingDown constructs a shuttingDownError.
func ErrShuttingDown() error { return shuttingDownError{} }

// IsShuttingDown reports whether err indicates the scheduler stopped
// accepting jobs.
func IsShuttingDown(err error) bool {
	_, ok := err.(shuttingDownError)
	return ok
}
