package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisLockTTL   = 60 * time.Second
	redisLockRetry = 100 * time.Millisecond
)

// unlockScript releases the lock only if it is still held by this token, so
// a holder that outlived the TTL cannot release someone else's lock.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a Keyed lock backed by Redis SET NX. Use it when several
// bridge processes serve the same storefront.
type RedisLock struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLock creates a RedisLock using the given client.
func NewRedisLock(rdb *redis.Client) *RedisLock {
	return &RedisLock{rdb: rdb, prefix: "bridge:sku-lock:"}
}

// Acquire polls SET NX until the lock is taken or ctx is done. The TTL
// bounds how long a crashed holder can block a SKU.
func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := l.prefix + key

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, redisLockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisLockRetry):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = unlockScript.Run(ctx, l.rdb, []string{redisKey}, token).Result()
	}
	return release, nil
}
