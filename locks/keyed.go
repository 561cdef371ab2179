package locks

import (
	"context"
	"slices"
	"sync"
)

// KeyedMutex serializes access per key while letting different keys proceed
// concurrently. Each key gets its own FIFO [Mutex], named after the key.
// The zero value is ready to use.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*Mutex
	opts  []MutexOption
}

// NewKeyedMutex returns a KeyedMutex whose per-key mutexes are built with opts.
func NewKeyedMutex(opts ...MutexOption) *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*Mutex),
		opts:  opts,
	}
}

func (k *KeyedMutex) get(key string) *Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*Mutex)
	}

	m, ok := k.locks[key]
	if !ok {
		m = NewMutex(slices.Concat(k.opts, []MutexOption{WithName(key)})...)
		k.locks[key] = m
	}
	return m
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) error {
	return k.get(key).Acquire(ctx)
}

func (k *KeyedMutex) Release(key string) {
	k.get(key).Release()
}

func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}
