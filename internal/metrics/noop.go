package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTaskList is a no-op.
func (n *NoopRecorder) IncTaskList(outcome string) {}

// ObserveTaskListDuration is a no-op.
func (n *NoopRecorder) ObserveTaskListDuration(duration time.Duration) {}

// IncEntryCreated is a no-op.
func (n *NoopRecorder) IncEntryCreated() {}
