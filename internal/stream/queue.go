package stream

import "sync"

// Queue is an unbounded FIFO handoff between the hub and one connection's
// write loop. It grows instead of dropping, so a briefly stalled client
// catches up rather than losing updates.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	head   int
	tail   int
	count  int
	closed bool
}

// NewQueue creates a queue with the given initial capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &Queue[T]{items: make([]T, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an item, growing the ring when full. Returns false once the
// queue is closed.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	if q.count == len(q.items) {
		q.grow()
	}

	q.items[q.tail] = item
	q.tail = (q.tail + 1) % len(q.items)
	q.count++

	q.cond.Signal()
	return true
}

// Pop blocks until an item is available or the queue is closed. After close,
// remaining items still drain before the false return.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.count == 0 {
		var zero T
		return zero, false
	}

	return q.take(), true
}

// TryPop returns an item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		var zero T
		return zero, false
	}

	return q.take(), true
}

// Close wakes all blocked receivers. Pending items remain poppable.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// take removes the head item. Caller holds the lock.
func (q *Queue[T]) take() T {
	item := q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return item
}

// grow doubles capacity, unwrapping the ring. Caller holds the lock.
func (q *Queue[T]) grow() {
	bigger := make([]T, len(q.items)*2)
	if q.head < q.tail || q.count == 0 {
		copy(bigger, q.items[q.head:q.head+q.count])
	} else {
		n := copy(bigger, q.items[q.head:])
		copy(bigger[n:], q.items[:q.tail])
	}
	q.items = bigger
	q.head = 0
	q.tail = q.count
}
