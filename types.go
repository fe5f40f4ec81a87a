package taic

// TaskHandle is an opaque 64-bit word handed to and from the guest. The low
// bit, when set, means "preempt": enqueue at the head of the local queue
// instead of the tail, and raise the owning hart's software-interrupt line.
type TaskHandle uint64

// IsPreempt reports whether the preempt bit (bit 0) is set.
func (h TaskHandle) IsPreempt() bool { return h&1 == 1 }

// OsID and ProcID together identify a guest process. The pair (0, 0) is
// reserved to mean "unowned" / "free".
type (
	OsID   uint64
	ProcID uint64
)

// Handler is an opaque 64-bit word registered against an interrupt slot
// (external or software). Zero means "no handler registered".
type Handler uint64

// PackAllocIdx packs a global-queue index and a local-queue index into the
// wire format returned by a successful allocation: high 32 bits are the
// global-queue index, low 32 bits are the local-queue index.
func PackAllocIdx(gqIdx, lqIdx uint32) int64 {
	return int64(uint64(gqIdx)<<32 | uint64(lqIdx))
}

// UnpackAllocIdx splits a packed allocation index back into its two halves.
func UnpackAllocIdx(packed uint64) (gqIdx, lqIdx uint32) {
	return uint32(packed >> 32), uint32(packed)
}

// TaicState is the top-level controller state machine (spec.md §4.1).
type TaicState uint64

const (
	TaicIdle TaicState = iota
	TaicWOS            // word-1 of alloc_gq received, waiting on os_id's pair (proc_id)
	TaicRIDX           // alloc_idx parked for the guest to read
	TaicFreeQueue
	TaicPassSoftIntr
)

// GQState is the per-GlobalQueue state machine.
type GQState uint64

const (
	GQIdle GQState = iota
	GQAllocLQ
	GQFreeLQ
	GQEnqLQ
	GQDeqLQ
	GQRegExt
	GQHandleExt
	GQHandleSoft
)

// SintState is the per-GlobalQueue software-interrupt protocol sequencer.
type SintState uint64

const (
	SintIdle SintState = iota
	SintRegSend
	SintCancelSend
	SintRegRecv0
	SintRegRecv1
	SintSendIntr
)

// extLockState guards ExtIntrSlots' slot array. Every operation on the
// table is single-word, so it needs no carry values beyond busy/idle.
type extLockState uint64

const (
	extIdle extLockState = iota
	extBusy
)

// softLockState guards SoftIntrSlots' slot arrays and carries the
// os_id/proc_id/task_id registers used to stitch together the two- and
// three-word registration protocols.
type softLockState uint64

const (
	softIdle softLockState = iota
	softRegSend0
	softRegRecv0
	softRegRecv1
	softCancelSend0
	softWakeup
	softClean
	softCheckSend
)
