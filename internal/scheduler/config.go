package scheduler

import (
	"github.com/rs/zerolog"

	"ttsd/internal/engine"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultQueueCapacity = 64
	defaultHistorySize   = 50
	defaultWindowSize    = 20
)

// Config encapsulates all tunables for Scheduler construction.
type Config struct {
	// Engine performs the actual synthesis. Required.
	Engine engine.Engine
	// QueueCapacity bounds admitted-but-not-running jobs; Submit rejects
	// with a queue-full error beyond it.
	QueueCapacity int
	// HistorySize bounds retained terminal jobs (oldest evicted first).
	HistorySize int
	// WindowSize bounds the execution-duration window used for estimates.
	WindowSize int
	// Logger is optional; nil disables scheduler logging.
	Logger *zerolog.Logger
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
}

// NewWithConfig constructs a Scheduler from Config.
func NewWithConfig(cfg Config) *Scheduler {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = defaultQueueCapacity
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	var pub EventPublisher = noopPublisher{}
	if cfg.Publisher != nil {
		pub = cfg.Publisher
	}
	return &Scheduler{
		engine:      cfg.Engine,
		queue:       make(chan *Job, cfg.QueueCapacity),
		stop:        make(chan struct{}),
		queued:      make(map[string]*Job),
		historySize: cfg.HistorySize,
		windowSize:  cfg.WindowSize,
		log:         log,
		publisher:   pub,
		workerDone:  make(chan struct{}),
	}
}

// New constructs a Scheduler with package defaults.
func New(e engine.Engine) *Scheduler {
	return NewWithConfig(Config{Engine: e})
}
