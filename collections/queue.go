package collections

import (
	"context"
	"iter"
	"sync"

	"github.com/go-logr/logr"
)

type QueueOption func(*queueOptions)

type queueOptions struct {
	log logr.Logger
}

// WithQueueLogger sets the logger receiving the queue's V(1) diagnostics.
func WithQueueLogger(log logr.Logger) QueueOption {
	return func(o *queueOptions) {
		o.log = log
	}
}

// handoff is what a parked consumer is resumed with: either an item or the
// end-of-stream signal.
type handoff[T any] struct {
	item T
	end  bool
}

func (h handoff[T]) result() (T, error) {
	if h.end {
		var zero T
		return zero, ErrQueueClosed
	}
	return h.item, nil
}

// Queue is an unbounded FIFO queue. Enqueue may be called from any number of
// goroutines; Dequeue and Drain must only be used by one consumer at a time.
// The zero value is an empty, open queue.
type Queue[T any] struct {
	mu sync.Mutex
	// items is only non-empty while waiter is nil.
	items  []T
	waiter chan handoff[T]
	closed bool
	log    logr.Logger
}

func NewQueue[T any](opts ...QueueOption) *Queue[T] {
	o := queueOptions{log: logr.Discard()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Queue[T]{log: o.log}
}

// Enqueue appends item to the queue, or hands it straight to the consumer if
// one is parked. It never blocks. Items enqueued after Close are buffered and
// remain reachable through TryDequeue.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w := q.waiter; w != nil {
		q.waiter = nil
		w <- handoff[T]{item: item}
		q.log.V(1).Info("handed item to waiting consumer")
		return
	}
	q.items = append(q.items, item)
}

func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// TryDequeue removes and returns the head of the queue. The boolean is false
// when nothing is buffered. Buffered items stay available after Close.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Dequeue returns the next item, parking the caller while the queue is empty.
// It returns ErrQueueClosed once the queue is closed and empty, and ctx.Err()
// if ctx ends while parked. An item handed over concurrently with the
// cancellation is returned rather than dropped.
//
// Dequeue panics with ErrConcurrentConsumer if another consumer is already
// parked on q.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	if item, ok := q.pop(); ok {
		q.mu.Unlock()
		return item, nil
	}
	if q.closed {
		q.mu.Unlock()
		return zero, ErrQueueClosed
	}
	if q.waiter != nil {
		q.mu.Unlock()
		panic(ErrConcurrentConsumer)
	}
	w := make(chan handoff[T], 1)
	q.waiter = w
	q.mu.Unlock()

	q.log.V(1).Info("consumer parked on empty queue")

	select {
	case h := <-w:
		return h.result()
	case <-ctx.Done():
	}

	q.mu.Lock()
	if q.waiter == w {
		q.waiter = nil
		q.mu.Unlock()
		return zero, ctx.Err()
	}
	q.mu.Unlock()

	// Enqueue or Close cleared the slot, and both fill w before doing so.
	return (<-w).result()
}

// Drain returns a sequence yielding items as they become available. The
// sequence ends once the queue is closed and empty, or when the caller stops
// ranging. Each call starts a new sequence over the same queue.
func (q *Queue[T]) Drain() iter.Seq[T] {
	return q.DrainContext(context.Background())
}

// DrainContext is like Drain, but the sequence also ends when ctx ends.
func (q *Queue[T]) DrainContext(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, err := q.Dequeue(ctx)
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Close marks the queue as closed and resumes a parked consumer with the
// end-of-stream signal. Buffered items are kept. Calling Close more than once
// has no further effect.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	if w := q.waiter; w != nil {
		q.waiter = nil
		w <- handoff[T]{end: true}
	}
	q.log.V(1).Info("queue closed", "buffered", len(q.items))
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
