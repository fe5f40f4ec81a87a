package taic

// ExtIntrSlots maps external IRQ indices to a pending handler handle. It is
// the simplest of the three lock-protected tables: every operation is a
// single MMIO word, so its CAS state machine needs no carry registers
// beyond busy/idle.
type ExtIntrSlots struct {
	state *CASState[extLockState]
	slots []Handler
}

func newExtIntrSlots(capacity uint32) *ExtIntrSlots {
	return &ExtIntrSlots{
		state: NewCASState(extIdle),
		slots: make([]Handler, capacity),
	}
}

// Register records handler against irq. Bounds checking happens before any
// CAS is attempted, matching the original device's guard-clause-before-lock
// discipline: an out-of-range index is a guest programming error, not a
// contended resource.
func (e *ExtIntrSlots) Register(diag *diagnostics, gqIdx uint32, irq uint32, handler Handler) {
	if int(irq) >= len(e.slots) {
		if diag.allow(diagOutOfRange, uint64(gqIdx)) {
			diag.log.Warning().Uint64("gq", uint64(gqIdx)).Uint64("irq", uint64(irq)).Log("ext irq is out of range")
		}
		return
	}
	acquire(e.state, extIdle, extBusy)
	e.slots[irq] = handler
	e.state.Store(extIdle)
}

// Wakeup consumes and returns the handler registered against irq, leaving
// the slot empty (zero means "no handler was pending").
func (e *ExtIntrSlots) Wakeup(diag *diagnostics, gqIdx uint32, irq uint32) Handler {
	if int(irq) >= len(e.slots) {
		if diag.allow(diagOutOfRange, uint64(gqIdx)) {
			diag.log.Warning().Uint64("gq", uint64(gqIdx)).Uint64("irq", uint64(irq)).Log("ext irq is out of range")
		}
		return 0
	}
	acquire(e.state, extIdle, extBusy)
	h := e.slots[irq]
	e.slots[irq] = 0
	e.state.Store(extIdle)
	return h
}

// Clean zeroes every slot, used when a global queue is fully released.
func (e *ExtIntrSlots) Clean() {
	acquire(e.state, extIdle, extBusy)
	for i := range e.slots {
		e.slots[i] = 0
	}
	e.state.Store(extIdle)
}
