package scheduler

import "time"

// The estimates below are best-effort heuristics, not guarantees. With an
// empty duration window every average is 0 and both estimates degrade to 0;
// callers must read a 0 estimate as "unknown", not "instant".

// recordDurationLocked appends one execution time to the bounded window,
// evicting the oldest entry at capacity. Caller holds s.mu.
func (s *Scheduler) recordDurationLocked(seconds float64) {
	s.durations = append(s.durations, seconds)
	if len(s.durations) > s.windowSize {
		s.durations = s.durations[1:]
	}
}

// averageLocked is the arithmetic mean of the retained durations, in
// seconds, or 0 when the window is empty. Caller holds s.mu.
func (s *Scheduler) averageLocked() float64 {
	if len(s.durations) == 0 {
		return 0
	}
	var sum float64
	for _, d := range s.durations {
		sum += d
	}
	return sum / float64(len(s.durations))
}

// remainingLocked estimates seconds left for the in-flight job:
// max(0, average - elapsed). Caller holds s.mu.
func (s *Scheduler) remainingLocked(now time.Time) float64 {
	if s.current == nil || len(s.durations) == 0 {
		return 0
	}
	rem := s.averageLocked() - now.Sub(s.current.StartedAt).Seconds()
	if rem < 0 {
		return 0
	}
	return rem
}

// waitLocked estimates seconds a newly queued job would wait: the rest of
// the in-flight job plus one average-duration slot per job already queued.
// Caller holds s.mu.
func (s *Scheduler) waitLocked(now time.Time, queueLen int) float64 {
	if queueLen == 0 || len(s.durations) == 0 {
		return 0
	}
	return s.remainingLocked(now) + float64(queueLen)*s.averageLocked()
}
