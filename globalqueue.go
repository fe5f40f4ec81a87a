package taic

// GlobalQueue is one per-(os,proc) scheduling domain: a fixed array of
// local (per-hart) ready queues plus the external- and software-interrupt
// slot tables that route work into them. state and sintState are two
// independent CAS state machines: state sequences the LQ lifecycle
// (alloc/free/enqueue/dequeue) and the two interrupt-delivery paths;
// sintState sequences the multi-word software-interrupt registration
// protocols layered on top of SoftIntrSlots' own inner state.
type GlobalQueue struct {
	idx  uint32
	diag *diagnostics

	state     *CASState[GQState]
	sintState *CASState[SintState]

	osID   OsID
	procID ProcID
	hartID int64

	localQueues []LocalQueue
	usedLQCount int

	ext  *ExtIntrSlots
	soft *SoftIntrSlots

	ssip, usip bool

	recvOS     OsID
	recvProc   ProcID
	sendCapIdx int32
}

func newGlobalQueue(idx uint32, lqCount, intrNum uint32, diag *diagnostics) *GlobalQueue {
	return &GlobalQueue{
		idx:         idx,
		diag:        diag,
		state:       NewCASState(GQIdle),
		sintState:   NewCASState(SintIdle),
		hartID:      -1,
		localQueues: make([]LocalQueue, lqCount),
		ext:         newExtIntrSlots(intrNum),
		soft:        newSoftIntrSlots(intrNum),
		sendCapIdx:  -1,
	}
}

// owned reports whether this global queue currently belongs to a process;
// (osID, procID) == (0, 0) means unowned. Every operation below except
// allocation/free itself and external-interrupt delivery (SimExtIntr calls
// handleExtIntr on every global queue) is gated on this by the TAIC-level
// caller, exactly as the original's plain, unlocked "Not used GQ" guard
// clause.
func (g *GlobalQueue) owned() bool {
	return g.osID != 0 || g.procID != 0
}

// allocLQ finds and claims the first unused local queue, returning -1 if
// none are free.
func (g *GlobalQueue) allocLQ() int32 {
	acquire(g.state, GQIdle, GQAllocLQ)
	defer g.state.Store(GQIdle)
	for i := range g.localQueues {
		if !g.localQueues[i].inUse {
			g.localQueues[i].inUse = true
			g.usedLQCount++
			return int32(i)
		}
	}
	return -1
}

// freeLQ releases a previously allocated local queue. When this drops the
// global queue's used count to zero, the whole queue is reset back to an
// unowned, empty state so a future AllocGQ can reuse it cleanly.
func (g *GlobalQueue) freeLQ(lqIdx uint32) {
	if int(lqIdx) >= len(g.localQueues) {
		return
	}
	acquire(g.state, GQIdle, GQFreeLQ)
	defer g.state.Store(GQIdle)
	if !g.localQueues[lqIdx].inUse {
		return
	}
	g.localQueues[lqIdx].inUse = false
	g.usedLQCount--
	if g.usedLQCount == 0 {
		g.osID, g.procID = 0, 0
		g.hartID = -1
		g.ssip, g.usip = false, false
		for i := range g.localQueues {
			g.localQueues[i].reset()
		}
		g.ext.Clean()
	}
}

// lqEnq pushes a task handle onto local queue lqIdx. Its acquisition
// deliberately accepts GQHandleExt and GQHandleSoft as legal predecessor
// states, not just GQIdle: handleExtIntr and handleSoftIntr call into lqEnq
// without releasing their own hold first, and rely on this single
// Store(GQIdle) to release both the reentrant caller's hold and this call's
// own acquisition in one step. Any other observed state means some other GQ
// operation currently holds the lock; lqEnq spins rather than dropping the
// enqueue, matching queue.c's lq_enq busy-wait loop. The index and in-use
// checks run after acquisition, so a rejected enqueue also ends in that
// Store(GQIdle).
func (g *GlobalQueue) lqEnq(lqIdx uint32, h TaskHandle, needPreempt bool) {
	acquireReentrant(g.state, GQIdle, GQEnqLQ, GQHandleExt, GQHandleSoft)
	defer g.state.Store(GQIdle)
	if int(lqIdx) >= len(g.localQueues) {
		if g.diag.allow(diagOutOfRange, uint64(g.idx)) {
			g.diag.log.Warning().Uint64("gq", uint64(g.idx)).Uint64("lq", uint64(lqIdx)).Log("local queue index not valid")
		}
		return
	}
	if !g.localQueues[lqIdx].inUse {
		if g.diag.allow(diagUnusedQueue, uint64(g.idx)) {
			g.diag.log.Warning().Uint64("gq", uint64(g.idx)).Uint64("lq", uint64(lqIdx)).Log("local queue not used")
		}
		return
	}
	g.localQueues[lqIdx].enqueue(h, needPreempt)
}

// lqDeq pops the next runnable task handle from local queue lqIdx. If
// either software-interrupt flag is pending, the request is redirected to
// local queue 0, both flags are cleared, and the matching hart line is
// lowered via lines — matching the original's "software interrupt forces
// hart 0's queue, lowered only once the guest drains it" rule. An empty
// target queue falls back to work-stealing: the first non-empty local queue
// in index order.
func (g *GlobalQueue) lqDeq(lqIdx uint32, lines HostLines) (TaskHandle, bool) {
	if int(lqIdx) >= len(g.localQueues) {
		if g.diag.allow(diagOutOfRange, uint64(g.idx)) {
			g.diag.log.Warning().Uint64("gq", uint64(g.idx)).Uint64("lq", uint64(lqIdx)).Log("local queue index not valid")
		}
		return 0, false
	}
	if !g.localQueues[lqIdx].inUse {
		if g.diag.allow(diagUnusedQueue, uint64(g.idx)) {
			g.diag.log.Warning().Uint64("gq", uint64(g.idx)).Uint64("lq", uint64(lqIdx)).Log("local queue not used")
		}
		return 0, false
	}
	acquire(g.state, GQIdle, GQDeqLQ)
	defer g.state.Store(GQIdle)

	if g.ssip || g.usip {
		lqIdx = 0
		hart := uint32(g.hartID)
		if g.ssip {
			g.ssip = false
			lines.LowerSSIP(hart)
		}
		if g.usip {
			g.usip = false
			lines.LowerUSIP(hart)
		}
	}
	if h, ok := g.localQueues[lqIdx].dequeue(); ok {
		return h, true
	}
	for i := range g.localQueues {
		if h, ok := g.localQueues[i].dequeue(); ok {
			return h, true
		}
	}
	return 0, false
}

// registerExtHandler records handler against irq for this global queue.
func (g *GlobalQueue) registerExtHandler(irq uint32, handler Handler) {
	acquire(g.state, GQIdle, GQRegExt)
	defer g.state.Store(GQIdle)
	g.ext.Register(g.diag, g.idx, irq, handler)
}

// handleExtIntr consumes a pending external-interrupt handler for irq and,
// if one was registered, routes it onto this global queue's local queue 0,
// raising the owning hart's SSIP/USIP line when the handler's preempt bit
// is set. state is held across the call into lqEnq; see lqEnq's doc.
func (g *GlobalQueue) handleExtIntr(irq uint32, lines HostLines) {
	acquire(g.state, GQIdle, GQHandleExt)
	handler := g.ext.Wakeup(g.diag, g.idx, irq)
	if handler == 0 {
		g.state.Store(GQIdle)
		return
	}
	needPreempt := handler&1 == 1
	if needPreempt {
		g.raiseSoftLine(lines)
	}
	g.lqEnq(0, TaskHandle(handler), needPreempt)
}

// handleSoftIntr mirrors handleExtIntr for the software-interrupt delivery
// path: senderOS/senderProc identify the process that sent the interrupt,
// used to look up this global queue's registered receive handler.
func (g *GlobalQueue) handleSoftIntr(senderOS OsID, senderProc ProcID, lines HostLines) {
	acquire(g.state, GQIdle, GQHandleSoft)
	handler := g.soft.wakeupSoft(g.diag, g.idx, senderOS, senderProc)
	if handler == 0 {
		g.state.Store(GQIdle)
		return
	}
	needPreempt := handler&1 == 1
	if needPreempt {
		g.raiseSoftLine(lines)
	}
	g.lqEnq(0, TaskHandle(handler), needPreempt)
}

// raiseSoftLine sets this global queue's ssip or usip flag depending on
// whether the owning process is the supervisor (procID == 0) or a user
// process, and raises the corresponding hart output line.
func (g *GlobalQueue) raiseSoftLine(lines HostLines) {
	hart := uint32(g.hartID)
	if g.procID == 0 {
		g.ssip = true
		lines.RaiseSSIP(hart)
	} else {
		g.usip = true
		lines.RaiseUSIP(hart)
	}
}

// registerSender advances the two-word sender-registration protocol. A
// racing caller holding sintState for some other operation causes this call
// to spin rather than drop the word, matching the original's retry loop.
func (g *GlobalQueue) registerSender(data uint64) {
	if _, fresh := acquireStep(g.sintState, SintIdle, SintRegSend); fresh {
		g.soft.registerSend(g.diag, g.idx, data)
		return
	}
	g.soft.registerSend(g.diag, g.idx, data)
	g.sintState.Store(SintIdle)
}

// cancelSender advances the two-word sender-cancellation protocol.
func (g *GlobalQueue) cancelSender(data uint64) {
	if _, fresh := acquireStep(g.sintState, SintIdle, SintCancelSend); fresh {
		g.soft.cancelSend(data)
		return
	}
	g.soft.cancelSend(data)
	g.sintState.Store(SintIdle)
}

// registerReceiver advances the three-word receiver-registration protocol.
// The outer sintState and the inner SoftIntrSlots state both step through
// their own three-value carry in lockstep, one word at a time.
func (g *GlobalQueue) registerReceiver(data uint64) {
	old, fresh := acquireStep(g.sintState, SintIdle, SintRegRecv0, SintRegRecv1)
	switch {
	case fresh:
		g.soft.registerRecv(g.diag, g.idx, data)
	case old == SintRegRecv0:
		g.soft.registerRecv(g.diag, g.idx, data)
		g.sintState.Store(SintRegRecv1)
	case old == SintRegRecv1:
		g.soft.registerRecv(g.diag, g.idx, data)
		g.sintState.Store(SintIdle)
	}
}

// checkSendCap advances the two-word send-capability lookup: word one
// stashes the candidate receiver's OS id, word two stashes its process id
// and resolves sendCapIdx, leaving it at -1 if no capability was found.
func (g *GlobalQueue) checkSendCap(data uint64) {
	if _, fresh := acquireStep(g.sintState, SintIdle, SintSendIntr); fresh {
		g.recvOS = OsID(data)
		return
	}
	g.recvProc = ProcID(data)
	g.sendCapIdx = int32(g.soft.checkSend(g.recvOS, g.recvProc))
	g.sintState.Store(SintIdle)
}

// writeHartID records which hart currently owns this global queue. Unlike
// every other operation in this file, the original device performs this as
// a plain unguarded assignment with no CAS at all; a racing concurrent
// reader may observe a torn or stale value, which the original accepts
// since hart ownership changes only at queue (re)allocation time.
func (g *GlobalQueue) writeHartID(hartID int64) {
	g.hartID = hartID
}
