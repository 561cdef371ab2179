package locks

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, name string, duration time.Duration, assertion func() bool) {
	t.Helper()

	deadline := time.Now().Add(duration)
	for !assertion() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", name)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitWaiting(t *testing.T, m *Mutex, n int) {
	t.Helper()
	waitFor(t, "waiters to queue", 3*time.Second, func() bool { return m.Waiting() == n })
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for critical section")
	}
}

func TestMutex(t *testing.T) {
	t.Run("an unlocked mutex is acquired immediately", func(t *testing.T) {
		m := NewMutex()
		require.NoError(t, m.Acquire(context.Background()))
		assert.True(t, m.Locked())
		assert.Equal(t, 0, m.Waiting())

		m.Release()
		assert.False(t, m.Locked())
	})

	t.Run("the second caller enters only after Release", func(t *testing.T) {
		m := NewMutex()
		require.NoError(t, m.Acquire(context.Background()))

		entered := make(chan struct{})
		go func() {
			_ = m.Acquire(context.Background())
			close(entered)
		}()

		waitWaiting(t, m, 1)
		assert.False(t, isClosed(entered))

		m.Release()
		waitClosed(t, entered)
		assert.True(t, m.Locked(), "ownership is handed over, not dropped")
		assert.Equal(t, 0, m.Waiting())

		m.Release()
		assert.False(t, m.Locked())
	})

	t.Run("waiters are served in arrival order", func(t *testing.T) {
		m := NewMutex(WithName("fifo"))
		require.NoError(t, m.Acquire(context.Background()))

		names := []string{"A", "B", "C"}
		entered := make(map[string]chan struct{}, len(names))
		release := make(map[string]chan struct{}, len(names))
		var order []string

		for i, name := range names {
			entered[name] = make(chan struct{})
			release[name] = make(chan struct{})
			go func() {
				_ = m.Acquire(context.Background())
				order = append(order, name)
				close(entered[name])
				<-release[name]
				m.Release()
			}()
			waitWaiting(t, m, i+1)
		}

		m.Release()
		for i, name := range names {
			waitClosed(t, entered[name])
			for _, later := range names[i+1:] {
				assert.False(t, isClosed(entered[later]), "%s entered before %s released", later, name)
			}
			close(release[name])
		}

		waitFor(t, "mutex to unlock", 3*time.Second, func() bool { return !m.Locked() })
		assert.Equal(t, names, order)
	})

	t.Run("TryAcquire does not overtake waiters", func(t *testing.T) {
		m := NewMutex()
		require.True(t, m.TryAcquire())
		assert.False(t, m.TryAcquire())

		entered := make(chan struct{})
		go func() {
			m.Lock()
			close(entered)
		}()
		waitWaiting(t, m, 1)

		m.Unlock()
		assert.False(t, m.TryAcquire())
		waitClosed(t, entered)

		m.Unlock()
		assert.True(t, m.TryAcquire())
		m.Unlock()
	})

	t.Run("a cancelled waiter leaves the queue", func(t *testing.T) {
		m := NewMutex()
		require.NoError(t, m.Acquire(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		res := make(chan error, 1)
		go func() { res <- m.Acquire(ctx) }()
		waitWaiting(t, m, 1)

		cancel()
		select {
		case err := <-res:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(3 * time.Second):
			t.Fatal("cancelled Acquire did not return")
		}
		assert.Equal(t, 0, m.Waiting())

		m.Release()
		assert.False(t, m.Locked())
	})

	t.Run("a cancelled waiter does not block later waiters", func(t *testing.T) {
		m := NewMutex()
		require.NoError(t, m.Acquire(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() { first <- m.Acquire(ctx) }()
		waitWaiting(t, m, 1)

		entered := make(chan struct{})
		go func() {
			m.Lock()
			close(entered)
		}()
		waitWaiting(t, m, 2)

		cancel()
		assert.ErrorIs(t, <-first, context.Canceled)
		waitWaiting(t, m, 1)

		m.Release()
		waitClosed(t, entered)
		m.Release()
	})

	t.Run("releasing an unlocked mutex panics", func(t *testing.T) {
		m := NewMutex()
		assert.PanicsWithValue(t, ErrNotLocked, m.Release)

		var zero Mutex
		assert.PanicsWithValue(t, ErrNotLocked, zero.Unlock)
	})

	t.Run("critical sections do not overlap", func(t *testing.T) {
		var m Mutex
		const n = 100

		counter := 0
		inside := 0
		var wg sync.WaitGroup
		wg.Add(n)
		for range n {
			go func() {
				defer wg.Done()
				m.Lock()
				defer m.Unlock()

				inside++
				assert.Equal(t, 1, inside)
				counter++
				inside--
			}()
		}
		wg.Wait()

		assert.Equal(t, n, counter)
		assert.False(t, m.Locked())
	})
}

func TestMutexName(t *testing.T) {
	named := NewMutex(WithName("writer"))
	assert.Equal(t, "writer", named.Name())

	_, err := uuid.Parse(NewMutex().Name())
	assert.NoError(t, err)

	var zero Mutex
	first := zero.Name()
	_, err = uuid.Parse(first)
	assert.NoError(t, err)
	assert.Equal(t, first, zero.Name())
}

func TestMutexLogging(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	m := NewMutex(WithName("logged"), WithMutexLogger(log))
	m.Lock()

	entered := make(chan struct{})
	go func() {
		m.Lock()
		close(entered)
	}()
	waitWaiting(t, m, 1)
	m.Unlock()
	waitClosed(t, entered)
	m.Unlock()

	mu.Lock()
	defer mu.Unlock()
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, `"msg"="waiting for mutex"`)
	assert.Contains(t, joined, `"mutex"="logged"`)
	assert.Contains(t, joined, `"msg"="handed mutex to next waiter"`)
}

func TestZeroMutexLogging(t *testing.T) {
	var (
		mu    sync.Mutex
		lines []string
	)
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	var m Mutex
	WithMutexLogger(log)(&m)
	m.Lock()

	entered := make(chan struct{})
	go func() {
		m.Lock()
		close(entered)
	}()
	waitWaiting(t, &m, 1)
	m.Unlock()
	waitClosed(t, entered)
	m.Unlock()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"mutex"="`+m.Name()+`"`)
	}
}
