package taic

// sendCapEntry is one slot of the send-capability table: (osID, procID)
// identifies a process permitted to have a software interrupt delivered to
// it. The zero value, (0, 0), means "free".
type sendCapEntry struct {
	osID   OsID
	procID ProcID
}

// recvCapEntry is one slot of the receive-capability table: (osID, procID)
// names the sending process whose software interrupt wakes handler, the task
// this global queue's owner registered for it.
type recvCapEntry struct {
	osID    OsID
	procID  ProcID
	handler Handler
}

// SoftIntrSlots holds one GlobalQueue's send/receive capability tables. Its
// CAS state is an inner lock distinct from GlobalQueue's own sintState: a
// single two- or three-word MMIO protocol at the GlobalQueue level drives
// both the outer sintState carry (which word of the protocol this is) and,
// nested inside each word's handling, this inner state (which half of
// *this* table's own sub-protocol is in flight). Only the word that holds
// the CAS writes the carry registers below, so no further synchronization
// is needed on them.
type SoftIntrSlots struct {
	state   *CASState[softLockState]
	sendcap []sendCapEntry
	recvcap []recvCapEntry

	osID   OsID
	procID ProcID
	taskID Handler
}

func newSoftIntrSlots(capacity uint32) *SoftIntrSlots {
	return &SoftIntrSlots{
		state:   NewCASState(softIdle),
		sendcap: make([]sendCapEntry, capacity),
		recvcap: make([]recvCapEntry, capacity),
	}
}

// registerSend advances the send-capability registration protocol by one
// word. Word one claims the carry state and stashes osID; word two stashes
// procID and performs the scan-and-insert. A pre-existing exact match makes
// the operation an idempotent no-op, matching the original's "already
// registered" short-circuit. A racing caller holding this inner lock for
// some other operation causes this call to spin rather than drop the word.
func (s *SoftIntrSlots) registerSend(diag *diagnostics, gqIdx uint32, data uint64) {
	if _, fresh := acquireStep(s.state, softIdle, softRegSend0); fresh {
		s.osID = OsID(data)
		return
	}
	s.procID = ProcID(data)
	defer s.state.Store(softIdle)

	free := -1
	for i, e := range s.sendcap {
		if e.osID == s.osID && e.procID == s.procID {
			return
		}
		if free == -1 && e.osID == 0 && e.procID == 0 {
			free = i
		}
	}
	if free == -1 {
		if diag.allow(diagSlotFull, uint64(gqIdx)) {
			diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("no send cap slots")
		}
		return
	}
	s.sendcap[free] = sendCapEntry{osID: s.osID, procID: s.procID}
}

// cancelSend reverses a prior registerSend; a non-matching pair is a silent
// no-op.
func (s *SoftIntrSlots) cancelSend(data uint64) {
	if _, fresh := acquireStep(s.state, softIdle, softCancelSend0); fresh {
		s.osID = OsID(data)
		return
	}
	s.procID = ProcID(data)
	defer s.state.Store(softIdle)

	for i, e := range s.sendcap {
		if e.osID == s.osID && e.procID == s.procID {
			s.sendcap[i] = sendCapEntry{}
			return
		}
	}
}

// checkSend is single-shot (not carried across words): it scans the send
// table for an exact (osID, procID) match and returns its index, or -1.
func (s *SoftIntrSlots) checkSend(osID OsID, procID ProcID) int {
	acquire(s.state, softIdle, softCheckSend)
	defer s.state.Store(softIdle)
	for i, e := range s.sendcap {
		if e.osID == osID && e.procID == procID {
			return i
		}
	}
	return -1
}

// registerRecv advances the three-word receive-capability registration
// protocol. Word three's scan either overwrites an existing entry's
// handler (re-registration is intentionally supported, not rejected) or
// inserts into the first free slot found during the same scan.
func (s *SoftIntrSlots) registerRecv(diag *diagnostics, gqIdx uint32, data uint64) {
	old, fresh := acquireStep(s.state, softIdle, softRegRecv0, softRegRecv1)
	switch {
	case fresh:
		s.osID = OsID(data)
		return
	case old == softRegRecv0:
		s.procID = ProcID(data)
		s.state.Store(softRegRecv1)
		return
	}

	s.taskID = Handler(data)
	defer s.state.Store(softIdle)

	free := -1
	for i, e := range s.recvcap {
		if e.osID == s.osID && e.procID == s.procID {
			s.recvcap[i].handler = s.taskID
			return
		}
		if free == -1 && e.osID == 0 && e.procID == 0 && e.handler == 0 {
			free = i
		}
	}
	if free == -1 {
		if diag.allow(diagSlotFull, uint64(gqIdx)) {
			diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("no recv cap slots")
		}
		return
	}
	s.recvcap[free] = recvCapEntry{osID: s.osID, procID: s.procID, handler: s.taskID}
}

// wakeupSoft is single-shot: it finds the receive-capability entry matching
// (sendOsID, sendProcID), clears it, and returns the handler that was
// registered there (0 if no match was found).
func (s *SoftIntrSlots) wakeupSoft(diag *diagnostics, gqIdx uint32, sendOsID OsID, sendProcID ProcID) Handler {
	acquire(s.state, softIdle, softWakeup)
	defer s.state.Store(softIdle)

	for i, e := range s.recvcap {
		if e.osID == sendOsID && e.procID == sendProcID {
			h := e.handler
			s.recvcap[i] = recvCapEntry{}
			return h
		}
	}
	if diag.allow(diagReceiverNotFound, uint64(gqIdx)) {
		diag.log.Warning().Uint64("gq", uint64(gqIdx)).Log("cannot wakeup the softintr task handler")
	}
	return 0
}

// clean zeroes both capability tables entirely.
func (s *SoftIntrSlots) clean() {
	acquire(s.state, softIdle, softClean)
	defer s.state.Store(softIdle)
	for i := range s.sendcap {
		s.sendcap[i] = sendCapEntry{}
	}
	for i := range s.recvcap {
		s.recvcap[i] = recvCapEntry{}
	}
}
