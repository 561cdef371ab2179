package collections

import "errors"

// ErrQueueClosed is returned by Dequeue once the queue is closed and no
// buffered item is left.
var ErrQueueClosed = errors.New("queue is closed")

// ErrConcurrentConsumer is the panic value raised when a second consumer
// parks on a queue that already has one waiting.
var ErrConcurrentConsumer = errors.New("queue already has a waiting consumer")
