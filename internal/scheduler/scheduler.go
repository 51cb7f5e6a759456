package scheduler

import (
	"sync"

	"github.com/rs/zerolog"

	"ttsd/internal/engine"
	"ttsd/pkg/types"
)

// Scheduler owns the FIFO job queue, the single worker, and the combined
// status state (current job, terminal history, duration window). It is the
// explicit aggregate replacing the original's module-level globals: one
// instance, one lock, passed by reference to the worker and every query
// entry point.
type Scheduler struct {
	engine    engine.Engine
	log       zerolog.Logger
	publisher EventPublisher

	// queue delivers each job to exactly one dequeue, in submission order.
	queue chan *Job
	// stop is closed by Shutdown; the worker dequeues nothing after it.
	stop chan struct{}

	mu sync.Mutex
	// queued indexes jobs admitted but not yet dequeued, by id.
	queued map[string]*Job
	// current is the in-flight job, or nil.
	current *Job
	// history holds terminal jobs, oldest first, bounded by historySize.
	history []*Job
	// durations holds recent execution times, bounded by windowSize.
	durations []float64 // seconds

	historySize int
	windowSize  int
	closed      bool
	started     bool

	startOnce  sync.Once
	workerDone chan struct{}
}

// Submit admits a job and returns its id immediately. It never blocks on
// completion. Fails with a queue-full error when the queue is at capacity
// and a shutting-down error after Shutdown.
func (s *Scheduler) Submit(input types.SynthesisInput) (string, error) {
	job := newJob(input)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", shuttingDownError{}
	}
	select {
	case s.queue <- job:
		s.queued[job.ID] = job
	default:
		s.mu.Unlock()
		return "", queueFullError{capacity: cap(s.queue)}
	}
	depth := len(s.queue)
	s.mu.Unlock()

	queueDepth.Set(float64(depth))
	s.log.Info().Str("job_id", job.ID).Int("queue_depth", depth).Msg("job queued")
	s.publisher.Publish(Event{Name: "job_queued", JobID: job.ID})
	return job.ID, nil
}
