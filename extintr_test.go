package taic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtIntrSlots_HandlerConsumption covers I6: after Wakeup returns a
// non-zero handler, the next Wakeup without an intervening Register
// returns 0.
func TestExtIntrSlots_HandlerConsumption(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	e := newExtIntrSlots(4)

	e.Register(diag, 0, 2, 0x42)
	got := e.Wakeup(diag, 0, 2)
	require.Equal(t, Handler(0x42), got)

	got = e.Wakeup(diag, 0, 2)
	assert.Equal(t, Handler(0), got)
}

// TestExtIntrSlots_RegisterWakeupRoundTrip covers L1.
func TestExtIntrSlots_RegisterWakeupRoundTrip(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	e := newExtIntrSlots(4)

	for irq := uint32(0); irq < 4; irq++ {
		e.Register(diag, 0, irq, Handler(100+irq))
	}
	for irq := uint32(0); irq < 4; irq++ {
		assert.Equal(t, Handler(100+irq), e.Wakeup(diag, 0, irq))
	}
}

func TestExtIntrSlots_OutOfRangeIsDropped(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	e := newExtIntrSlots(4)

	e.Register(diag, 0, 99, 0x1) // out of range, logged and dropped
	assert.Equal(t, Handler(0), e.Wakeup(diag, 0, 99))
}

func TestExtIntrSlots_Clean(t *testing.T) {
	t.Parallel()

	diag := newTestDiagnostics()
	e := newExtIntrSlots(2)

	e.Register(diag, 0, 0, 1)
	e.Register(diag, 0, 1, 2)
	e.Clean()

	assert.Equal(t, Handler(0), e.Wakeup(diag, 0, 0))
	assert.Equal(t, Handler(0), e.Wakeup(diag, 0, 1))
}
