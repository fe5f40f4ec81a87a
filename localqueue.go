package taic

// LocalQueue is one per-hart ready queue owned by a GlobalQueue. inUse marks
// whether this slot has been handed out by allocLQ; ready.Len() counts entries
// queued across both the preempt and non-preempt paths (the original device
// keeps a single ready_queue per local queue, not two separate ones — the
// preempt bit only changes which end of the queue an enqueue lands on).
type LocalQueue struct {
	inUse bool
	ready Queue
}

// reset clears a local queue back to its unused, empty state. Called when
// FreeLQ drops the owning GlobalQueue's used count to zero.
func (l *LocalQueue) reset() {
	l.inUse = false
	l.ready.Drain()
}

// enqueue pushes a task handle, honoring the preempt bit's head/tail rule.
// needPreempt is an explicit argument rather than h.IsPreempt() because the
// guest-facing MMIO enqueue always passes false regardless of the data
// word's low bit; only the internal interrupt-delivery paths derive it from
// the registered handler's own low bit.
func (l *LocalQueue) enqueue(h TaskHandle, needPreempt bool) {
	if needPreempt {
		l.ready.PushHead(h)
	} else {
		l.ready.PushTail(h)
	}
}

// dequeue pops the next runnable task handle, if any.
func (l *LocalQueue) dequeue() (TaskHandle, bool) {
	return l.ready.PopHead()
}
