package taic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	var q Queue
	q.PushTail(1)
	q.PushTail(2)
	q.PushTail(3)
	require.Equal(t, 3, q.Len())

	v, ok := q.PopHead()
	require.True(t, ok)
	assert.Equal(t, TaskHandle(1), v)

	v, ok = q.PopHead()
	require.True(t, ok)
	assert.Equal(t, TaskHandle(2), v)

	assert.Equal(t, 1, q.Len())
}

func TestQueue_PushHeadPreempt(t *testing.T) {
	t.Parallel()

	var q Queue
	q.PushTail(1)
	q.PushTail(2)
	q.PushHead(99)

	v, ok := q.PopHead()
	require.True(t, ok)
	assert.Equal(t, TaskHandle(99), v)

	v, _ = q.PopHead()
	assert.Equal(t, TaskHandle(1), v)
}

func TestQueue_PopEmpty(t *testing.T) {
	t.Parallel()

	var q Queue
	_, ok := q.PopHead()
	assert.False(t, ok)
}

func TestQueue_Drain(t *testing.T) {
	t.Parallel()

	var q Queue
	q.PushTail(1)
	q.PushTail(2)
	q.Drain()
	assert.Equal(t, 0, q.Len())
	_, ok := q.PopHead()
	assert.False(t, ok)
}
