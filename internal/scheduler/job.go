package scheduler

import (
	"time"

	"github.com/google/uuid"

	"ttsd/pkg/types"
)

// Status represents the lifecycle state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one synthesis request plus its lifecycle state. The input is
// immutable after submission; lifecycle fields are mutated only by the
// worker, under the scheduler lock.
type Job struct {
	ID           string
	Input        types.SynthesisInput
	Status       Status
	CreatedAt    time.Time
	StartedAt    time.Time
	EndedAt      time.Time
	ResultPath   string
	ErrorMessage string

	// done is closed exactly once, when the job reaches a terminal state.
	done chan struct{}
}

func newJob(input types.SynthesisInput) *Job {
	return &Job{
		ID:        newJobID(),
		Input:     input,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// newJobID returns a short opaque id: the first 8 hex chars of a v4 UUID.
func newJobID() string {
	return uuid.NewString()[:8]
}

// snapshot returns a detached value copy safe to hand to callers.
func (j *Job) snapshot() Job {
	c := *j
	c.done = nil
	return c
}

// Elapsed returns how long the job has been (or was) running.
func (j Job) Elapsed(now time.Time) time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	if j.Status.Terminal() {
		return j.EndedAt.Sub(j.StartedAt)
	}
	return now.Sub(j.StartedAt)
}
