package scheduler

import (
	"context"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAverageEmptyWindow(t *testing.T) {
	s := New(&fakeEngine{})
	if got := s.averageLocked(); got != 0 {
		t.Fatalf("empty window average = %v, want 0", got)
	}
}

func TestAverageMean(t *testing.T) {
	s := New(&fakeEngine{})
	for _, d := range []float64{2, 4, 6} {
		s.recordDurationLocked(d)
	}
	if got := s.averageLocked(); !almostEqual(got, 4) {
		t.Fatalf("average = %v, want 4", got)
	}
}

func TestDurationWindowEviction(t *testing.T) {
	s := NewWithConfig(Config{Engine: &fakeEngine{}, WindowSize: 3})
	for _, d := range []float64{10, 1, 2, 3} {
		s.recordDurationLocked(d)
	}
	if len(s.durations) != 3 {
		t.Fatalf("window len = %d, want 3", len(s.durations))
	}
	// The 10s outlier was evicted, so the average reflects only recent runs.
	if got := s.averageLocked(); !almostEqual(got, 2) {
		t.Fatalf("average after eviction = %v, want 2", got)
	}
}

func TestRemainingNoCurrentJob(t *testing.T) {
	s := New(&fakeEngine{})
	s.recordDurationLocked(5)
	if got := s.remainingLocked(time.Now()); got != 0 {
		t.Fatalf("remaining with no current job = %v, want 0", got)
	}
}

func TestRemainingEmptyHistory(t *testing.T) {
	s := New(&fakeEngine{})
	s.current = &Job{ID: "x", Status: StatusRunning, StartedAt: time.Now()}
	if got := s.remainingLocked(time.Now()); got != 0 {
		t.Fatalf("remaining with empty window = %v, want 0", got)
	}
}

func TestRemainingClampedAtZero(t *testing.T) {
	s := New(&fakeEngine{})
	now := time.Now()
	s.recordDurationLocked(2)
	// Running for 10s against a 2s average: overdue, never negative.
	s.current = &Job{ID: "x", Status: StatusRunning, StartedAt: now.Add(-10 * time.Second)}
	if got := s.remainingLocked(now); got != 0 {
		t.Fatalf("overdue remaining = %v, want 0", got)
	}
}

func TestRemainingMidJob(t *testing.T) {
	s := New(&fakeEngine{})
	now := time.Now()
	s.recordDurationLocked(2)
	s.recordDurationLocked(2)
	s.current = &Job{ID: "x", Status: StatusRunning, StartedAt: now.Add(-500 * time.Millisecond)}
	if got := s.remainingLocked(now); !almostEqual(got, 1.5) {
		t.Fatalf("remaining = %v, want 1.5", got)
	}
}

func TestWaitEstimate(t *testing.T) {
	s := New(&fakeEngine{})
	now := time.Now()
	// Two completed 2s runs, one job 1s into execution, three queued behind it.
	s.recordDurationLocked(2)
	s.recordDurationLocked(2)
	s.current = &Job{ID: "x", Status: StatusRunning, StartedAt: now.Add(-time.Second)}

	if got := s.waitLocked(now, 3); !almostEqual(got, 1+3*2) {
		t.Fatalf("wait = %v, want 7", got)
	}
	if got := s.waitLocked(now, 0); got != 0 {
		t.Fatalf("wait with empty queue = %v, want 0", got)
	}
}

func TestWaitEstimateEmptyHistory(t *testing.T) {
	s := New(&fakeEngine{})
	if got := s.waitLocked(time.Now(), 5); got != 0 {
		t.Fatalf("wait with no history = %v, want 0", got)
	}
}

func TestQueueStatusAggregates(t *testing.T) {
	eng := &fakeEngine{delay: time.Millisecond, fail: map[string]string{"bad": "boom"}}
	s := New(eng)
	s.Start(context.Background())

	idOK, _ := s.Submit(input("good"))
	idBad, _ := s.Submit(input("bad"))
	waitTerminal(t, s, idOK)
	waitTerminal(t, s, idBad)

	st := s.QueueStatus()
	if st.QueueSize != 0 {
		t.Fatalf("queue size = %d, want 0", st.QueueSize)
	}
	if st.CurrentJob != nil {
		t.Fatalf("current job should be nil, got %+v", st.CurrentJob)
	}
	// Failures count toward the execution average but not completions.
	if st.TotalCompleted != 1 {
		t.Fatalf("total completed = %d, want 1", st.TotalCompleted)
	}
	if st.AverageExecutionSeconds <= 0 {
		t.Fatalf("average should be positive after runs, got %v", st.AverageExecutionSeconds)
	}
}

func TestTextPreviewTruncation(t *testing.T) {
	short := "hello"
	if got := textPreview(short); got != short {
		t.Fatalf("short preview = %q", got)
	}
	long := ""
	for i := 0; i < 60; i++ {
		long += "å"
	}
	got := textPreview(long)
	if r := []rune(got); len(r) != previewLen+3 {
		t.Fatalf("preview rune length = %d, want %d", len(r), previewLen+3)
	}
}
