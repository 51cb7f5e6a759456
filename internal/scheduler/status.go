package scheduler

import (
	"context"
	"time"

	"ttsd/pkg/types"
)

// GetStatus returns a detached copy of the job with the given id, checking
// the current job first, then the terminal history, then the pending queue.
// Unknown ids yield a job-not-found error; callers must treat that as
// ambiguous, since old terminal jobs are evicted from history.
func (s *Scheduler) GetStatus(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID == id {
		return s.current.snapshot(), nil
	}
	for _, j := range s.history {
		if j.ID == id {
			return j.snapshot(), nil
		}
	}
	if j, ok := s.queued[id]; ok {
		return j.snapshot(), nil
	}
	return Job{}, jobNotFoundError{id: id}
}

// RemainingSeconds returns the heuristic remaining time for the in-flight
// job, or 0 when nothing is running or the history is empty.
func (s *Scheduler) RemainingSeconds() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked(time.Now())
}

// QueueStatus takes one consistent snapshot of the combined queue/worker
// state under a single lock acquisition.
func (s *Scheduler) QueueStatus() types.QueueStatusResponse {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := types.QueueStatusResponse{
		QueueSize:               len(s.queue),
		AverageExecutionSeconds: s.averageLocked(),
		EstimatedWaitSeconds:    s.waitLocked(now, len(s.queue)),
	}
	for _, j := range s.history {
		if j.Status == StatusCompleted {
			resp.TotalCompleted++
		}
	}
	if s.current != nil {
		resp.CurrentJob = &types.CurrentJobInfo{
			ID:                 s.current.ID,
			TextPreview:        textPreview(s.current.Input.Text),
			ElapsedSeconds:     now.Sub(s.current.StartedAt).Seconds(),
			EstimatedRemaining: s.remainingLocked(now),
		}
	}
	return resp
}

// Ready reports whether the worker loop has been started and the scheduler
// still accepts jobs.
func (s *Scheduler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.closed
}

// Wait blocks until the job reaches a terminal state or ctx ends, then
// returns the terminal snapshot. Polling GetStatus remains the primary
// contract; Wait is a convenience over the per-job completion signal.
func (s *Scheduler) Wait(ctx context.Context, id string) (Job, error) {
	s.mu.Lock()
	j := s.lookupLocked(id)
	s.mu.Unlock()
	if j == nil {
		return Job{}, jobNotFoundError{id: id}
	}

	select {
	case <-j.done:
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return j.snapshot(), nil
}

// lookupLocked finds a live job by id in any position. Caller holds s.mu.
func (s *Scheduler) lookupLocked(id string) *Job {
	if s.current != nil && s.current.ID == id {
		return s.current
	}
	for _, j := range s.history {
		if j.ID == id {
			return j
		}
	}
	return s.queued[id]
}

const previewLen = 50

func textPreview(text string) string {
	r := []rune(text)
	if len(r) <= previewLen {
		return text
	}
	return string(r[:previewLen]) + "..."
}
