package taic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftIntrSlots_RegisterSendCheckSend(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerSend(diag, 0, 7)  // word 1: osID
	s.registerSend(diag, 0, 42) // word 2: procID, inserts

	idx := s.checkSend(7, 42)
	assert.GreaterOrEqual(t, idx, 0)
}

// TestSoftIntrSlots_CapabilityGating covers I7's sender-side half: checkSend
// only finds an entry that was actually registered.
func TestSoftIntrSlots_CapabilityGating(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerSend(diag, 0, 7)
	s.registerSend(diag, 0, 42)

	assert.Equal(t, -1, s.checkSend(1, 2))
	assert.GreaterOrEqual(t, s.checkSend(7, 42), 0)
}

// TestSoftIntrSlots_RegisterCancelRoundTrip covers L2: register then cancel
// leaves the table in its prior (empty) state.
func TestSoftIntrSlots_RegisterCancelRoundTrip(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerSend(diag, 0, 7)
	s.registerSend(diag, 0, 42)
	require.GreaterOrEqual(t, s.checkSend(7, 42), 0)

	s.cancelSend(7)
	s.cancelSend(42)
	assert.Equal(t, -1, s.checkSend(7, 42))
}

func TestSoftIntrSlots_RegisterSendIdempotent(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerSend(diag, 0, 7)
	s.registerSend(diag, 0, 42)
	firstIdx := s.checkSend(7, 42)

	// Re-registering the same pair is a no-op, not a second insertion.
	s.registerSend(diag, 0, 7)
	s.registerSend(diag, 0, 42)
	secondIdx := s.checkSend(7, 42)

	assert.Equal(t, firstIdx, secondIdx)
}

func TestSoftIntrSlots_RegisterRecvWakeup(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerRecv(diag, 0, 7)   // os_id
	s.registerRecv(diag, 0, 42)  // proc_id
	s.registerRecv(diag, 0, 555) // task_id, inserts

	h := s.wakeupSoft(diag, 0, 7, 42)
	assert.Equal(t, Handler(555), h)
}

// TestSoftIntrSlots_RegisterRecvReRegistrationOverwrites covers the
// documented re-registration semantics: registering the same (os,proc)
// again overwrites the handler rather than rejecting it as a duplicate.
func TestSoftIntrSlots_RegisterRecvReRegistrationOverwrites(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerRecv(diag, 0, 7)
	s.registerRecv(diag, 0, 42)
	s.registerRecv(diag, 0, 111)

	s.registerRecv(diag, 0, 7)
	s.registerRecv(diag, 0, 42)
	s.registerRecv(diag, 0, 222)

	assert.Equal(t, Handler(222), s.wakeupSoft(diag, 0, 7, 42))
}

func TestSoftIntrSlots_WakeupNotFoundReturnsZero(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	assert.Equal(t, Handler(0), s.wakeupSoft(diag, 0, 1, 2))
}

func TestSoftIntrSlots_WakeupConsumesEntry(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerRecv(diag, 0, 7)
	s.registerRecv(diag, 0, 42)
	s.registerRecv(diag, 0, 555)

	require.Equal(t, Handler(555), s.wakeupSoft(diag, 0, 7, 42))
	assert.Equal(t, Handler(0), s.wakeupSoft(diag, 0, 7, 42))
}

func TestSoftIntrSlots_Clean(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	s := newSoftIntrSlots(4)

	s.registerSend(diag, 0, 7)
	s.registerSend(diag, 0, 42)
	s.clean()

	assert.Equal(t, -1, s.checkSend(7, 42))
}
