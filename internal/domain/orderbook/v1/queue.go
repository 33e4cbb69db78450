package orderbookv1

import "errors"

// ErrEmptyQueue is returned by Peek/Dequeue on an empty queue.
var ErrEmptyQueue = errors.New("orderbook: queue is empty")

// Queue is an intrusive FIFO of orders: the links live on the Order
// itself (next/prev), so enqueue, peek, dequeue and arbitrary-id removal
// are all O(1) with no extra allocation. This is the "later revision"
// design spec.md §4.1/§9 calls out, chosen over a tombstone-scanning
// slice because cancellations must not leave unbounded scan cost behind.
type Queue struct {
	head *Order
	tail *Order
	size int
}

// NewQueue returns an empty FIFO queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends order at the back of the queue.
func (q *Queue) Enqueue(o *Order) {
	o.next = nil
	o.prev = q.tail
	if q.tail != nil {
		q.tail.next = o
	} else {
		q.head = o
	}
	q.tail = o
	q.size++
}

// Peek returns the order at the head without removing it.
func (q *Queue) Peek() (*Order, error) {
	if q.head == nil {
		return nil, ErrEmptyQueue
	}
	return q.head, nil
}

// Dequeue removes and returns the order at the head.
func (q *Queue) Dequeue() (*Order, error) {
	o, err := q.Peek()
	if err != nil {
		return nil, err
	}
	q.unlink(o)
	return o, nil
}

// Remove unlinks order from wherever it sits in the queue. It is a no-op
// if the order is not linked into this queue (already removed).
func (q *Queue) Remove(o *Order) {
	if o.prev == nil && o.next == nil && q.head != o {
		return
	}
	q.unlink(o)
}

func (q *Queue) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		q.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		q.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	q.size--
}

// IsEmpty reports whether the queue has no orders.
func (q *Queue) IsEmpty() bool { return q.head == nil }

// Size returns the number of orders currently queued.
func (q *Queue) Size() int { return q.size }

// ToList returns the queue's contents from head to tail.
func (q *Queue) ToList() []*Order {
	out := make([]*Order, 0, q.size)
	for n := q.head; n != nil; n = n.next {
		out = append(out, n)
	}
	return out
}
