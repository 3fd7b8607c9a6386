// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Task list outcomes recorded by the service layer.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Task list metrics
	IncTaskList(outcome string) // outcome: "ok", "invalid", "not_found", "error"
	ObserveTaskListDuration(duration time.Duration)

	// Entry creation metrics
	IncEntryCreated()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
