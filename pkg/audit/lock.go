package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Locker serializes audits of the same group across instances.
type Locker interface {
	// Lock returns a release func, or ErrAuditInProgress when the key is held.
	Lock(ctx context.Context, key string) (func(context.Context) error, error)
}

// RedisLocker implements Locker with redislock.
type RedisLocker struct {
	Client *redislock.Client
	TTL    time.Duration
}

// NewRedisLocker creates a RedisLocker on top of an existing redis client.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{Client: redislock.New(rdb), TTL: ttl}
}

// Make sure we conform to the interface
var _ Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	lock, err := l.Client.Obtain(ctx, "lock:"+key, l.TTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, ErrAuditInProgress)
	} else if err != nil {
		return nil, fmt.Errorf("failed to obtain redis lock: %w", err)
	}
	return lock.Release, nil
}
