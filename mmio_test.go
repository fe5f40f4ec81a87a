package taic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDecodeAddress_Deterministic covers I4: the decomposition is a pure
// function of addr (and the configured LQ_NUM).
func TestDecodeAddress_Deterministic(t *testing.T) {
	t.Parallel()

	addrs := []uint64{0x0, 0x8, 0x10, 0x1000, 0x2008, 0x4040, 0x9038}
	for _, addr := range addrs {
		first := DecodeAddress(addr, DefaultLocalQueueCount)
		second := DecodeAddress(addr, DefaultLocalQueueCount)
		assert.Equal(t, first, second)
	}
}

func TestDecodeAddress_ControlPage(t *testing.T) {
	t.Parallel()

	d := DecodeAddress(0x8, DefaultLocalQueueCount)
	assert.True(t, d.IsCtl)
	assert.Equal(t, uint64(0x8), d.Op)
}

func TestDecodeAddress_PerQueuePage(t *testing.T) {
	t.Parallel()

	// Page 4 (addr 0x4000) with LQ_NUM=2 decodes to gq=1, lq=1 (idx=4-1=3)
	d := DecodeAddress(0x4000, 2)
	assert.False(t, d.IsCtl)
	assert.Equal(t, uint64(0x0), d.Op)
	// idx = addr/PAGE_SIZE - 1 = 4 - 1 = 3; gq = 3/2 = 1; lq = 3%2 = 1
	assert.Equal(t, uint32(1), d.GQIdx)
	assert.Equal(t, uint32(1), d.LQIdx)
}

func TestDecodeAddress_GQ3LQ0(t *testing.T) {
	t.Parallel()

	// scenario 2: GQ=3, LQ=0 with LQ_NUM=2 => idx = 3*2+0 = 6 => addr = (6+1)*0x1000 = 0x7000
	d := DecodeAddress(0x7000, 2)
	assert.False(t, d.IsCtl)
	assert.Equal(t, uint32(3), d.GQIdx)
	assert.Equal(t, uint32(0), d.LQIdx)
}
