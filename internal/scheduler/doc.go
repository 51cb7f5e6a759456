// Package scheduler serializes synthesis jobs against a single GPU-bound
// engine and tracks their lifecycle. It is structured into small files by
// concern:
//
//   - scheduler.go: core Scheduler type, constructors, Submit admission.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - job.go: Job type, Status state machine, id generation.
//   - errors.go: error types and helpers (IsQueueFull, IsJobNotFound, ...).
//   - worker.go: the single background execution loop and drain/shutdown.
//   - status.go: GetStatus/QueueStatus query surface and Wait.
//   - estimate.go: execution-duration window and remaining/wait heuristics.
//   - events.go: EventPublisher port; eventpub_memory.go: test publisher.
//   - metrics.go: Prometheus collectors for job outcomes and queue depth.
//
// Exactly one worker goroutine ever runs; the engine's Synthesize call is
// never invoked concurrently with itself. All shared mutable state (current
// job, terminal history, duration window) lives behind one mutex, held only
// for brief field updates and snapshot copies, never across a Synthesize
// call.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New/NewWithConfig, Start, Submit, GetStatus,
// QueueStatus, Wait, Shutdown). Internal types are subject to change.
package scheduler
