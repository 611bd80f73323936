// Package lock serializes catalog mutations per external SKU. The remote
// server can fire overlapping notifications for the same product; without
// this, concurrent read-modify-write syncs race last-writer-wins.
package lock

import "context"

// Keyed grants exclusive access to a key. Acquire blocks until the lock is
// held or ctx is done; the returned func releases it.
type Keyed interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
