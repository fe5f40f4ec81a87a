package taic

// Queue is a simple FIFO of 64-bit task handles, implemented as a singly
// linked list. The original device's local queues are small and bounded in
// practice (one entry per outstanding task), so a linked list with no
// pooling is simpler and clearer than the teacher's chunked-ingress ring
// buffer (eventloop/ingress.go's ChunkedIngress), which exists there to
// amortize allocation for a high-throughput microtask stream; that
// throughput concern does not apply to a per-process scheduling queue.
type Queue struct {
	head, tail *queueNode
	count      int
}

type queueNode struct {
	value TaskHandle
	next  *queueNode
}

// PushTail appends a value to the back of the queue (normal enqueue).
func (q *Queue) PushTail(v TaskHandle) {
	n := &queueNode{value: v}
	if q.tail == nil {
		q.head, q.tail = n, n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.count++
}

// PushHead prepends a value to the front of the queue (preempt enqueue).
func (q *Queue) PushHead(v TaskHandle) {
	n := &queueNode{value: v, next: q.head}
	q.head = n
	if q.tail == nil {
		q.tail = n
	}
	q.count++
}

// PopHead removes and returns the front value. The second return is false
// if the queue was empty.
func (q *Queue) PopHead() (TaskHandle, bool) {
	if q.head == nil {
		return 0, false
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.count--
	return n.value, true
}

// Len reports the number of entries currently queued.
func (q *Queue) Len() int { return q.count }

// Drain empties the queue, discarding every entry. Used when a local
// queue's owning process count drops to zero and its ready queues must be
// reset for reuse by a future owner.
func (q *Queue) Drain() {
	q.head, q.tail, q.count = nil, nil, 0
}
