// Package locking keeps refresh runs from overlapping across instances.
package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Deletes the key only while it still holds our token, so an expired lock
// taken over by another instance is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// lockClient is the subset of *redis.Client the locker needs.
type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLocker implements external.RunLocker with SET NX and a TTL.
type RedisLocker struct {
	client lockClient

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker connects to the Redis instance at redisURL (redis://...).
func NewRedisLocker(redisURL string) (*RedisLocker, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	return newRedisLocker(client), client, nil
}

func newRedisLocker(client lockClient) *RedisLocker {
	return &RedisLocker{client: client, tokens: make(map[string]string)}
}

var _ external.RunLocker = (*RedisLocker)(nil)

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// Noop grants every lock. Used when no Redis is configured.
type Noop struct{}

var _ external.RunLocker = Noop{}

func (Noop) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (Noop) Unlock(context.Context, string) error { return nil }
