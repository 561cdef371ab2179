// Package locks provides FIFO-fair mutual exclusion.
package locks

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// ErrNotLocked is the panic value raised by Release on an unlocked Mutex.
var ErrNotLocked = errors.New("locks: release of unlocked mutex")

type MutexOption func(*Mutex)

// WithName sets the name reported by Name and attached to log lines.
// Unnamed mutexes get a random UUID.
func WithName(name string) MutexOption {
	return func(m *Mutex) {
		m.name = name
	}
}

func WithMutexLogger(log logr.Logger) MutexOption {
	return func(m *Mutex) {
		m.log = log
	}
}

// Mutex is a mutual exclusion lock granting ownership strictly in the order
// Acquire was called. Release hands ownership directly to the oldest waiter,
// so the lock is never observably free while someone is queued.
//
// The zero value is an unlocked mutex.
type Mutex struct {
	mu      sync.Mutex
	name    string
	named   bool
	locked  bool
	waiters []chan struct{}
	log     logr.Logger
}

var _ sync.Locker = (*Mutex)(nil)

func NewMutex(opts ...MutexOption) *Mutex {
	m := &Mutex{log: logr.Discard()}
	for _, fn := range opts {
		fn(m)
	}
	m.init()
	return m
}

// init assigns the default name and attaches it to the logger. m.mu must be
// held unless m is not yet shared.
func (m *Mutex) init() {
	if m.named {
		return
	}
	if m.name == "" {
		m.name = uuid.NewString()
	}
	m.log = m.log.WithValues("mutex", m.name)
	m.named = true
}

func (m *Mutex) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	return m.name
}

// Acquire takes the lock, waiting behind earlier callers if it is held.
//
// If ctx ends while waiting, the caller leaves the queue and ctx.Err() is
// returned. When ownership was handed over before the cancellation could be
// processed, Acquire returns nil and the caller owns the lock.
func (m *Mutex) Acquire(ctx context.Context) error {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	m.waiters = append(m.waiters, w)
	m.init()
	m.log.V(1).Info("waiting for mutex", "position", len(m.waiters))
	m.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.waiters, w); i != -1 {
		m.waiters = slices.Delete(m.waiters, i, i+1)
		m.log.V(1).Info("gave up waiting for mutex", "reason", ctx.Err())
		return ctx.Err()
	}
	return nil
}

// TryAcquire takes the lock only if it is free. It never overtakes waiters.
func (m *Mutex) TryAcquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

// Release gives the lock to the oldest waiter, or unlocks it when nobody is
// waiting. It must be called once per successful Acquire by the owner.
// Releasing an unlocked mutex panics with ErrNotLocked.
func (m *Mutex) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.locked {
		panic(ErrNotLocked)
	}
	if len(m.waiters) == 0 {
		m.locked = false
		return
	}
	next := m.waiters[0]
	m.waiters[0] = nil
	m.waiters = m.waiters[1:]
	close(next)
	m.init()
	m.log.V(1).Info("handed mutex to next waiter", "remaining", len(m.waiters))
}

// Lock is Acquire without cancellation.
func (m *Mutex) Lock() {
	_ = m.Acquire(context.Background())
}

func (m *Mutex) Unlock() {
	m.Release()
}

func (m *Mutex) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Waiting returns the number of queued Acquire calls.
func (m *Mutex) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}
