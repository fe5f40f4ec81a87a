package taic

import (
	"runtime"
	"sync/atomic"
	"time"
)

// CASState is a lock-free, compare-and-swap serialized state word.
//
// The original device pins multi-word MMIO protocols together by stashing
// partial arguments on the struct and using the lock variable itself as the
// sequencing mechanism: the first word of a protocol transitions the state
// to a non-idle "carry" value, and a later word from the same caller
// observes that carry value and completes the operation. CASState exposes
// exactly the primitive that discipline needs: a CompareAndSwap that always
// reports the value it observed, mirroring the host's qatomic_cmpxchg
// rather than Go's boolean-only sync/atomic.CompareAndSwap.
//
// A CASState is generalized over any state-enum type so TAIC.state,
// GlobalQueue.state, GlobalQueue.sintState and the inner slot-table locks
// can all share one implementation instead of five hand-rolled spin loops.
type CASState[T ~uint64] struct {
	v atomic.Uint64
}

// NewCASState returns a CASState initialized to the given state.
func NewCASState[T ~uint64](initial T) *CASState[T] {
	s := &CASState[T]{}
	s.v.Store(uint64(initial))
	return s
}

// Load reads the current state.
func (s *CASState[T]) Load() T { return T(s.v.Load()) }

// Store unconditionally sets the state. Used to release a held state back
// to its idle value once a critical section completes.
func (s *CASState[T]) Store(v T) { s.v.Store(uint64(v)) }

// CompareAndSwap attempts to transition from "from" to "to", and reports the
// value observed at the moment of comparison regardless of whether the swap
// took place. This is the building block every multi-word protocol in this
// package is built on: callers branch on (old, swapped) exactly as the
// original device branches on the return value of qatomic_cmpxchg.
func (s *CASState[T]) CompareAndSwap(from, to T) (old T, swapped bool) {
	for {
		cur := T(s.v.Load())
		if cur != from {
			return cur, false
		}
		if s.v.CompareAndSwap(uint64(from), uint64(to)) {
			return from, true
		}
		// Lost the race to a concurrent writer; reload and retry the
		// comparison rather than reporting a stale "from".
	}
}

// acquire spins until a CompareAndSwap(idle, target) succeeds, applying a
// bounded backoff so adversarial contention cannot pin a hart at 100% CPU
// indefinitely. See the "Fairness" design note: every critical section
// guarded by CASState is O(GQ_NUM*LQ_NUM*INTR_NUM) bounded and allocation
// free, so spinning briefly is always productive.
func acquire[T ~uint64](s *CASState[T], idle, target T) {
	for attempt := 0; ; attempt++ {
		if _, swapped := s.CompareAndSwap(idle, target); swapped {
			return
		}
		backoff(attempt)
	}
}

// acquireStep spins attempting to transition idle->step0, the first word of
// a multi-word carry protocol. If it instead observes the state already
// parked at step0 or at one of laterSteps (a previous word of the same
// protocol already completed), it returns that observed value with fresh
// set to false so the caller can tell which word of the protocol this call
// is. Any other observed value means a wholly different operation currently
// holds the lock; acquireStep backs off and retries rather than dropping
// the call, mirroring the original device's while(1) retry loop (spec.md
// §4.1's general acquisition discipline).
func acquireStep[T ~uint64](s *CASState[T], idle, step0 T, laterSteps ...T) (old T, fresh bool) {
	for attempt := 0; ; attempt++ {
		o, swapped := s.CompareAndSwap(idle, step0)
		if swapped {
			return step0, true
		}
		if o == step0 {
			return step0, false
		}
		for _, st := range laterSteps {
			if o == st {
				return st, false
			}
		}
		backoff(attempt)
	}
}

// acquireReentrant spins attempting to transition idle->target. If it
// instead observes the state already holding one of also (a reentrant
// caller's hold this call is permitted to borrow, e.g. handleExtIntr/
// handleSoftIntr calling into lqEnq without releasing their own hold
// first), it returns immediately without modifying the state. Any other
// observed value means some other operation holds the lock; it backs off
// and retries.
func acquireReentrant[T ~uint64](s *CASState[T], idle, target T, also ...T) {
	for attempt := 0; ; attempt++ {
		old, swapped := s.CompareAndSwap(idle, target)
		if swapped {
			return
		}
		for _, a := range also {
			if old == a {
				return
			}
		}
		backoff(attempt)
	}
}

// backoff implements a small bounded three-step backoff: pure spin for the
// first few attempts (critical sections are short enough that this usually
// wins), then yield the scheduler, then yield plus a fixed one-microsecond
// sleep for persistently contended cases.
func backoff(attempt int) {
	switch {
	case attempt < 4:
		return
	case attempt < 32:
		runtime.Gosched()
	default:
		runtime.Gosched()
		time.Sleep(time.Microsecond)
	}
}
