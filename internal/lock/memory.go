package lock

import (
	"context"
	"sync"
)

// MemoryLock is an in-process Keyed lock. Suitable when a single bridge
// process serves the storefront.
type MemoryLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLock creates an empty MemoryLock.
func NewMemoryLock() *MemoryLock {
	return &MemoryLock{locks: make(map[string]*entry)}
}

// Acquire blocks until the key's lock is held or ctx is done. Entries are
// reference-counted and removed when the last waiter is gone.
func (l *MemoryLock) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, e)
		return nil, ctx.Err()
	}

	release := func() {
		<-e.ch
		l.drop(key, e)
	}
	return release, nil
}

func (l *MemoryLock) drop(key string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
