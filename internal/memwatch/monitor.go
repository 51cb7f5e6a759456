// Package memwatch runs an independent maintenance loop that samples device
// memory pressure and triggers allocator cache cleaning above configured
// thresholds. It has no data dependency on the job scheduler.
package memwatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sampler reports current device memory usage as a percentage (0-100).
type Sampler interface {
	UsagePercent(ctx context.Context) (float64, error)
}

// Cleaner releases allocator caches. Force bypasses the implementation's
// cheaper partial-clean path.
type Cleaner interface {
	Clean(ctx context.Context, force bool) error
}

// CleanerFunc adapts a plain function to the Cleaner interface.
type CleanerFunc func(ctx context.Context, force bool) error

func (f CleanerFunc) Clean(ctx context.Context, force bool) error { return f(ctx, force) }

// Config tunes the monitor loop. Thresholds of 0 disable the corresponding
// trigger.
type Config struct {
	// ThresholdPct triggers a clean, subject to the cooldown.
	ThresholdPct float64
	// ForceThresholdPct triggers an immediate forced clean.
	ForceThresholdPct float64
	// Interval between samples.
	Interval time.Duration
	// Cooldown between non-forced cleans.
	Cooldown time.Duration
}

// Monitor periodically samples memory usage and cleans caches when
// thresholds are crossed.
type Monitor struct {
	cfg       Config
	sampler   Sampler
	cleaner   Cleaner
	log       zerolog.Logger
	lastClean time.Time
}

// New constructs a Monitor. A nil logger disables logging; interval and
// cooldown default to 60s when unset.
func New(cfg Config, sampler Sampler, cleaner Cleaner, log *zerolog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Monitor{cfg: cfg, sampler: sampler, cleaner: cleaner, log: l}
}

// Run loops until ctx is canceled. A sampling failure is logged and skipped;
// the loop keeps going.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	m.log.Info().Dur("interval", m.cfg.Interval).Msg("memory monitor started")
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("memory monitor stopped")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	usage, err := m.sampler.UsagePercent(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("memory sample failed")
		return
	}
	switch {
	case m.cfg.ForceThresholdPct > 0 && usage >= m.cfg.ForceThresholdPct:
		m.clean(ctx, usage, true)
	case m.cfg.ThresholdPct > 0 && usage >= m.cfg.ThresholdPct:
		if time.Since(m.lastClean) < m.cfg.Cooldown {
			m.log.Debug().Float64("usage_pct", usage).Msg("clean skipped: cooling down")
			return
		}
		m.clean(ctx, usage, false)
	}
}

func (m *Monitor) clean(ctx context.Context, usage float64, force bool) {
	m.log.Info().Float64("usage_pct", usage).Bool("force", force).Msg("cleaning device caches")
	if err := m.cleaner.Clean(ctx, force); err != nil {
		m.log.Error().Err(err).Msg("cache clean failed")
		return
	}
	m.lastClean = time.Now()
	if after, err := m.sampler.UsagePercent(ctx); err == nil {
		m.log.Info().Float64("usage_pct", after).Msg("cache clean finished")
		if force && after > usage-5 {
			m.log.Warn().Msg("clean had little effect; service may need a restart")
		}
	}
}
