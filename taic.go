package taic

// TAIC is the top-level controller: a fixed array of GlobalQueue instances,
// the control-page carry registers for the two-word alloc_gq sequence, and
// the MMIO decode/dispatch surface a host wiring layer drives.
type TAIC struct {
	state *CASState[TaicState]

	osID     OsID
	procID   ProcID
	allocIdx int64

	gqs       []*GlobalQueue
	lqCount   uint32
	intrSlots uint32

	hostLines HostLines
	diag      *diagnostics
	metrics   metricsCounters
}

// New constructs a TAIC per the supplied options. hart_count and
// external_irq_count are required; every other property defaults per
// spec.md §6 (GQ_NUM=4, LQ_NUM=2, INTR_NUM=6). If the supplied HostLines
// also implements ClaimChecker, New claims every hart's software-interrupt
// bits before returning, failing construction rather than aborting the
// process the way the original device's riscv_cpu_claim_interrupts does.
func New(opts ...Option) (*TAIC, error) {
	c := resolveOptions(opts)
	switch {
	case c.hartCount == 0:
		return nil, ErrHartCountZero
	case c.externalIRQCount == 0:
		return nil, ErrInterruptSlots
	case c.gqCount == 0:
		return nil, ErrGlobalQueueCount
	case c.lqCount == 0:
		return nil, ErrLocalQueueCount
	case c.intrSlots == 0:
		return nil, ErrInterruptSlots
	}

	logger := c.logger
	if logger == nil {
		logger = defaultLogger()
	}
	diag := newDiagnostics(logger, c.logRates)

	if cc, ok := c.hostLines.(ClaimChecker); ok {
		for hart := uint32(0); hart < c.hartCount; hart++ {
			ssipOK, usipOK := cc.ClaimSoftwareInterrupts(hart)
			if !ssipOK {
				return nil, ErrClaimSSIP
			}
			if !usipOK {
				return nil, ErrClaimUSIP
			}
		}
	}

	t := &TAIC{
		state:     NewCASState(TaicIdle),
		allocIdx:  -1,
		lqCount:   c.lqCount,
		intrSlots: c.intrSlots,
		hostLines: c.hostLines,
		diag:      diag,
		gqs:       make([]*GlobalQueue, c.gqCount),
	}
	for i := range t.gqs {
		t.gqs[i] = newGlobalQueue(uint32(i), c.lqCount, c.intrSlots, diag)
	}
	return t, nil
}

// Metrics returns a point-in-time snapshot of the engine's lock-free
// counters.
func (t *TAIC) Metrics() Metrics { return t.metrics.Snapshot() }

// guardGQ implements the plain, unlocked "gq_idx in range and GQ is owned"
// check the original repeats ahead of every per-GQ operation except
// allocation/free themselves.
func (t *TAIC) guardGQ(gqIdx uint32) (*GlobalQueue, bool) {
	if int(gqIdx) >= len(t.gqs) {
		if t.diag.allow(diagOutOfRange, uint64(gqIdx)) {
			t.diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("gq index out of range")
		}
		return nil, false
	}
	gq := t.gqs[gqIdx]
	if !gq.owned() {
		if t.diag.allow(diagUnusedQueue, uint64(gqIdx)) {
			t.diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("not used gq")
		}
		return nil, false
	}
	return gq, true
}

// AllocGQ advances the two-word allocate-global-queue protocol. Word one
// carries osID and parks at TaicWOS; word two carries procID, resolves the
// target GQ, and parks the result at TaicRIDX for ReadAllocIdx to collect. A
// racing caller holding state for some other control-page operation causes
// this call to spin rather than drop the word, matching the original's
// retry loop.
func (t *TAIC) AllocGQ(data uint64) {
	if _, fresh := acquireStep(t.state, TaicIdle, TaicWOS); fresh {
		t.osID = OsID(data)
		return
	}
	t.procID = ProcID(data)

	// Scan from the highest index downward: an exact ownership match wins
	// outright (shared allocation); otherwise remember the lowest-indexed
	// free slot seen over the whole scan.
	matchIdx, freeIdx := -1, -1
	for i := len(t.gqs) - 1; i >= 0; i-- {
		gq := t.gqs[i]
		if gq.osID == t.osID && gq.procID == t.procID {
			matchIdx = i
			break
		}
		if gq.osID == 0 && gq.procID == 0 {
			freeIdx = i
		}
	}

	gqIdx := matchIdx
	if gqIdx == -1 {
		gqIdx = freeIdx
	}
	if gqIdx == -1 {
		t.allocIdx = -1
		t.state.Store(TaicRIDX)
		return
	}

	gq := t.gqs[gqIdx]
	gq.osID, gq.procID = t.osID, t.procID
	lqIdx := gq.allocLQ()
	if lqIdx == -1 {
		t.allocIdx = -1
		t.state.Store(TaicRIDX)
		return
	}
	t.metrics.queueAllocs.Add(1)
	t.allocIdx = PackAllocIdx(uint32(gqIdx), uint32(lqIdx))
	t.state.Store(TaicRIDX)
}

// ReadAllocIdx collects the result of a completed AllocGQ sequence,
// returning 0 if no such sequence has parked a result yet (a well-formed
// caller always completes both AllocGQ words before reading).
func (t *TAIC) ReadAllocIdx() uint64 {
	if _, ok := t.state.CompareAndSwap(TaicRIDX, TaicIdle); !ok {
		return 0
	}
	return uint64(t.allocIdx)
}

// FreeGQ releases the local queue identified by a packed alloc index.
func (t *TAIC) FreeGQ(packed uint64) {
	gqIdx, lqIdx := UnpackAllocIdx(packed)
	if int(gqIdx) >= len(t.gqs) {
		if t.diag.allow(diagOutOfRange, uint64(gqIdx)) {
			t.diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("gq index out of range")
		}
		return
	}
	acquire(t.state, TaicIdle, TaicFreeQueue)
	t.gqs[gqIdx].freeLQ(lqIdx)
	t.state.Store(TaicIdle)
	t.metrics.queueFrees.Add(1)
}

// SimExtIntr fans handle_extintr(irq) out to every global queue unlocked,
// matching the original's lock-free broadcast: an IRQ is delivered to
// every process currently holding a registered handler for it.
func (t *TAIC) SimExtIntr(irq uint32) {
	for _, gq := range t.gqs {
		gq.handleExtIntr(irq, t.hostLines)
	}
	t.metrics.extIntrsRouted.Add(1)
}

// RegisterSender, CancelSender, RegisterReceiver, RegisterExt, WriteHartID
// and LqEnq/LqDeq are thin, guarded pass-throughs onto the addressed
// GlobalQueue.

func (t *TAIC) RegisterSender(gqIdx uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.registerSender(data)
	}
}

func (t *TAIC) CancelSender(gqIdx uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.cancelSender(data)
	}
}

func (t *TAIC) RegisterReceiver(gqIdx uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.registerReceiver(data)
	}
}

func (t *TAIC) RegisterExt(gqIdx, irq uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.registerExtHandler(irq, Handler(data))
	}
}

func (t *TAIC) WriteHartID(gqIdx uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.writeHartID(int64(data))
	}
}

func (t *TAIC) LqEnq(gqIdx, lqIdx uint32, data uint64) {
	if gq, ok := t.guardGQ(gqIdx); ok {
		gq.lqEnq(lqIdx, TaskHandle(data), false)
		t.metrics.tasksEnqueued.Add(1)
	}
}

func (t *TAIC) LqDeq(gqIdx, lqIdx uint32) uint64 {
	gq, ok := t.guardGQ(gqIdx)
	if !ok {
		return 0
	}
	h, found := gq.lqDeq(lqIdx, t.hostLines)
	if !found {
		return 0
	}
	t.metrics.tasksDequeued.Add(1)
	return uint64(h)
}

// SendSoftIntr advances the two-word software-interrupt send protocol.
// Word one stashes the candidate receiver's osID via checkSendCap; word
// two resolves the send capability, and — only if the sender holds it —
// locates the receiver GQ by exact (osID, procID) match and routes the
// interrupt into it.
func (t *TAIC) SendSoftIntr(gqIdx uint32, data uint64) {
	gq, ok := t.guardGQ(gqIdx)
	if !ok {
		return
	}
	if _, fresh := acquireStep(t.state, TaicIdle, TaicPassSoftIntr); fresh {
		gq.checkSendCap(data)
		return
	}
	gq.checkSendCap(data)
	defer t.state.Store(TaicIdle)

	if gq.sendCapIdx == -1 {
		return
	}
	recvOS, recvProc := gq.recvOS, gq.recvProc
	senderOS, senderProc := gq.osID, gq.procID
	for _, recv := range t.gqs {
		if recv.osID == recvOS && recv.procID == recvProc {
			recv.handleSoftIntr(senderOS, senderProc, t.hostLines)
			t.metrics.softIntrsSent.Add(1)
			return
		}
	}
}

// rejectAccess records and logs a dropped MMIO access: unrecognized
// control-page or per-queue-page offset. Rate-limited per page offset so a
// guest hammering an invalid address cannot flood the log sink.
func (t *TAIC) rejectAccess(addr uint64) {
	t.metrics.droppedAccesses.Add(1)
	if t.diag.allow(diagBadAccess, addr%PageSize) {
		t.diag.log.Warning().Uint64("addr", addr).Log("invalid mmio offset")
	}
}

// WriteWord dispatches an 8-byte MMIO store to the operation its address
// decodes to (§4.6.1). Access width is assumed to already be 8 bytes by
// virtue of the uint64 parameter; a host wiring layer is responsible for
// rejecting any other width before calling in. ErrBadAccessSize is
// returned for an address whose offset does not match any known operation.
func (t *TAIC) WriteWord(addr uint64, value uint64) error {
	d := DecodeAddress(addr, t.lqCount)
	if d.IsCtl {
		switch {
		case d.Op == opAllocGQ:
			t.AllocGQ(value)
			return nil
		case d.Op == opFreeGQ:
			t.FreeGQ(value)
			return nil
		case d.Op >= opSimExtIntrBase &&
			(d.Op-opSimExtIntrBase)%8 == 0 &&
			(d.Op-opSimExtIntrBase)/8 < uint64(t.intrSlots):
			t.SimExtIntr(uint32((d.Op - opSimExtIntrBase) / 8))
			return nil
		default:
			t.rejectAccess(addr)
			return ErrBadAccessSize
		}
	}

	switch {
	case d.Op == opLqEnq:
		t.LqEnq(d.GQIdx, d.LQIdx, value)
	case d.Op == opRegisterSender:
		t.RegisterSender(d.GQIdx, value)
	case d.Op == opCancelSender:
		t.CancelSender(d.GQIdx, value)
	case d.Op == opRegisterReceiver:
		t.RegisterReceiver(d.GQIdx, value)
	case d.Op == opSendSoftIntr:
		t.SendSoftIntr(d.GQIdx, value)
	case d.Op == opWriteHartID:
		t.WriteHartID(d.GQIdx, value)
	case d.Op >= opRegisterExtBase &&
		(d.Op-opRegisterExtBase)%8 == 0 &&
		(d.Op-opRegisterExtBase)/8 < uint64(t.intrSlots):
		t.RegisterExt(d.GQIdx, uint32((d.Op-opRegisterExtBase)/8), value)
	default:
		t.rejectAccess(addr)
		return ErrBadAccessSize
	}
	return nil
}

// ReadWord dispatches an 8-byte MMIO load. Out-of-range, not-yet-ready, and
// unrecognized-offset reads all return 0, per spec.md §7.
func (t *TAIC) ReadWord(addr uint64) uint64 {
	d := DecodeAddress(addr, t.lqCount)
	if d.IsCtl {
		if d.Op == opAllocGQ {
			return t.ReadAllocIdx()
		}
		t.rejectAccess(addr)
		return 0
	}
	switch d.Op {
	case opLqDeq:
		return t.LqDeq(d.GQIdx, d.LQIdx)
	default:
		t.rejectAccess(addr)
		return 0
	}
}
