package scheduler

import (
	"context"
	"fmt"
	"time"
)

// Start launches the single background worker. Safe to call once; later
// calls are no-ops. The ctx is passed through to the engine so shutdown
// can cancel a Synthesize call that supports it; the loop itself exits
// only when the queue is closed, letting an in-flight job finish first.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
		go s.run(ctx)
	})
}

func (s *Scheduler) run(ctx context.Context) {
	s.log.Info().Msg("worker started")
	s.publisher.Publish(Event{Name: "worker_started"})
	defer func() {
		s.log.Info().Msg("worker stopped")
		s.publisher.Publish(Event{Name: "worker_stopped"})
		close(s.workerDone)
	}()
	for {
		// Prefer stop over a ready job so shutdown dequeues nothing further.
		select {
		case <-s.stop:
			return
		default:
		}
		select {
		case <-s.stop:
			return
		case job := <-s.queue:
			s.runJob(ctx, job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job *Job) {
	s.mu.Lock()
	delete(s.queued, job.ID)
	job.Status = StatusRunning
	job.StartedAt = time.Now()
	s.current = job
	depth := len(s.queue)
	s.mu.Unlock()

	queueDepth.Set(float64(depth))
	inflightJobs.Set(1)
	s.log.Info().Str("job_id", job.ID).Msg("job started")
	s.publisher.Publish(Event{Name: "job_started", JobID: job.ID})

	// The engine runs lock-free; only the brief state updates above and
	// below hold the mutex.
	resultPath, err := s.synthesize(ctx, job)

	s.mu.Lock()
	job.EndedAt = time.Now()
	if err != nil {
		job.Status = StatusFailed
		job.ErrorMessage = err.Error()
	} else {
		job.Status = StatusCompleted
		job.ResultPath = resultPath
	}
	dur := job.EndedAt.Sub(job.StartedAt)
	s.recordDurationLocked(dur.Seconds())
	s.appendHistoryLocked(job)
	s.current = nil
	s.mu.Unlock()

	inflightJobs.Set(0)
	jobDuration.Observe(dur.Seconds())
	close(job.done)

	if err != nil {
		jobsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Str("job_id", job.ID).Dur("dur", dur).Err(err).Msg("job failed")
		s.publisher.Publish(Event{Name: "job_failed", JobID: job.ID, Fields: map[string]any{"error": err.Error()}})
		return
	}
	jobsTotal.WithLabelValues("completed").Inc()
	s.log.Info().Str("job_id", job.ID).Dur("dur", dur).Str("result", resultPath).Msg("job completed")
	s.publisher.Publish(Event{Name: "job_completed", JobID: job.ID, Fields: map[string]any{"result_path": resultPath}})
}

// synthesize invokes the engine, trapping panics at the job boundary so a
// misbehaving engine fails one job rather than the whole worker.
func (s *Scheduler) synthesize(ctx context.Context, job *Job) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesize panic: %v", r)
		}
	}()
	return s.engine.Synthesize(ctx, job.Input)
}

// appendHistoryLocked moves a terminal job into the bounded history,
// evicting the oldest entry at capacity. Caller holds s.mu.
func (s *Scheduler) appendHistoryLocked(job *Job) {
	s.history = append(s.history, job)
	if len(s.history) > s.historySize {
		s.history = s.history[1:]
	}
}

// Shutdown stops admissions, signals the worker, and waits for it to exit:
// any job already running finishes before Shutdown returns, still-queued
// jobs are abandoned. The ctx bounds the wait only; the worker is never
// force-killed.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.stop)
	}
	started := s.started
	s.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-s.workerDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
