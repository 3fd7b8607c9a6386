package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TaskListOK              uint64
	TaskListInvalid         uint64
	TaskListNotFound        uint64
	TaskListErrors          uint64
	TaskListDurationCount   uint64
	TaskListDurationTotalNs int64
	EntriesCreated          uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	taskListOK              uint64
	taskListInvalid         uint64
	taskListNotFound        uint64
	taskListErrors          uint64
	taskListDurationCount   uint64
	taskListDurationTotalNs int64
	entriesCreated          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TaskListOK:              atomic.LoadUint64(&m.taskListOK),
		TaskListInvalid:         atomic.LoadUint64(&m.taskListInvalid),
		TaskListNotFound:        atomic.LoadUint64(&m.taskListNotFound),
		TaskListErrors:          atomic.LoadUint64(&m.taskListErrors),
		TaskListDurationCount:   atomic.LoadUint64(&m.taskListDurationCount),
		TaskListDurationTotalNs: atomic.LoadInt64(&m.taskListDurationTotalNs),
		EntriesCreated:          atomic.LoadUint64(&m.entriesCreated),
	}
}

// IncTaskList increments the counter for a task list outcome.
func (m *InMemoryRecorder) IncTaskList(outcome string) {
	switch outcome {
	case OutcomeOK:
		atomic.AddUint64(&m.taskListOK, 1)
	case OutcomeInvalid:
		atomic.AddUint64(&m.taskListInvalid, 1)
	case OutcomeNotFound:
		atomic.AddUint64(&m.taskListNotFound, 1)
	default:
		atomic.AddUint64(&m.taskListErrors, 1)
	}
}

// ObserveTaskListDuration records a task list query duration.
func (m *InMemoryRecorder) ObserveTaskListDuration(duration time.Duration) {
	atomic.AddUint64(&m.taskListDurationCount, 1)
	atomic.AddInt64(&m.taskListDurationTotalNs, duration.Nanoseconds())
}

// IncEntryCreated increments the entries created counter.
func (m *InMemoryRecorder) IncEntryCreated() {
	atomic.AddUint64(&m.entriesCreated, 1)
}
