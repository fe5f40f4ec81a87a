package taic

import "sync/atomic"

// Metrics is a snapshot of lock-free counters sampled without blocking the
// hot MMIO path. Counters are incremented with a plain atomic add at the
// point an event occurs; nothing here participates in any CAS protocol.
// BackoffSpins and TasksStolen are not incremented anywhere in this package
// and always read 0.
type Metrics struct {
	BackoffSpins    uint64
	DroppedAccesses uint64
	QueueAllocs     uint64
	QueueFrees      uint64
	TasksEnqueued   uint64
	TasksDequeued   uint64
	TasksStolen     uint64
	SoftIntrsSent   uint64
	ExtIntrsRouted  uint64
}

// metricsCounters is the live, mutable counter set a TAIC holds internally;
// Metrics is the immutable point-in-time copy returned to callers.
type metricsCounters struct {
	backoffSpins    atomic.Uint64
	droppedAccesses atomic.Uint64
	queueAllocs     atomic.Uint64
	queueFrees      atomic.Uint64
	tasksEnqueued   atomic.Uint64
	tasksDequeued   atomic.Uint64
	tasksStolen     atomic.Uint64
	softIntrsSent   atomic.Uint64
	extIntrsRouted  atomic.Uint64
}

// Snapshot returns a consistent-enough (not transactional) point-in-time
// copy of every counter.
func (m *metricsCounters) Snapshot() Metrics {
	return Metrics{
		BackoffSpins:    m.backoffSpins.Load(),
		DroppedAccesses: m.droppedAccesses.Load(),
		QueueAllocs:     m.queueAllocs.Load(),
		QueueFrees:      m.queueFrees.Load(),
		TasksEnqueued:   m.tasksEnqueued.Load(),
		TasksDequeued:   m.tasksDequeued.Load(),
		TasksStolen:     m.tasksStolen.Load(),
		SoftIntrsSent:   m.softIntrsSent.Load(),
		ExtIntrsRouted:  m.extIntrsRouted.Load(),
	}
}
