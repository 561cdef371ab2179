// Package collections provides concurrency-aware containers.
//
// [Queue] is an unbounded FIFO queue for any number of producers and a single
// consumer. Producers never block. The consumer either polls with
// [Queue.TryDequeue] or parks in [Queue.Dequeue] (or ranges over
// [Queue.Drain]) until an item arrives or the queue is closed.
//
// [BlockReader] exposes a queue of byte blocks as an [io.Reader].
package collections
