package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSerializesSameKey(t *testing.T) {
	l := NewMemoryLock()
	var counter, max int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "1001")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "at most one holder per key at a time")
}

func TestAcquireDifferentKeysIndependent(t *testing.T) {
	l := NewMemoryLock()

	releaseA, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := l.Acquire(context.Background(), "b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestAcquireCancelledContext(t *testing.T) {
	l := NewMemoryLock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Acquire(ctx, "1001")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAcquireCancelledWhileWaiting(t *testing.T) {
	l := NewMemoryLock()
	release, err := l.Acquire(context.Background(), "1001")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := l.Acquire(ctx, "1001")
		errs <- err
	}()

	cancel()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("waiter did not honor cancellation")
	}

	release()
	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks, "abandoned waiter entry cleaned up")
}

func TestEntriesCleanedUpAfterRelease(t *testing.T) {
	l := NewMemoryLock()
	release, err := l.Acquire(context.Background(), "1001")
	require.NoError(t, err)
	release()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}
