package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	redisclient "github.com/zatekoja/recipemigration/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

const runLockPrefix = "migration:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRunLock implements RunLock with SET NX PX.
type RedisRunLock struct {
	client *redisclient.Client
}

var _ providers.RunLock = (*RedisRunLock)(nil)

// NewRedisRunLock creates a Redis-backed run lock
func NewRedisRunLock(client *redisclient.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

// Acquire takes the named lock for ttl
func (l *RedisRunLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	key := runLockPrefix + name
	token := uuid.NewString()

	ok, err := l.client.Client().SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, apperrors.NewExternalError("failed to acquire run lock", err)
	}
	if !ok {
		return nil, apperrors.NewConflictError(fmt.Sprintf("migration run %q is already in progress", name))
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client.Client(), []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to release run lock: %w", err)
		}
		return nil
	}
	return release, nil
}

// LocalRunLock is the in-process RunLock used when Redis is disabled.
type LocalRunLock struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

var _ providers.RunLock = (*LocalRunLock)(nil)

// NewLocalRunLock creates an in-process run lock
func NewLocalRunLock() *LocalRunLock {
	return &LocalRunLock{held: make(map[string]time.Time), now: time.Now}
}

// Acquire takes the named lock for ttl
func (l *LocalRunLock) Acquire(_ context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expires, ok := l.held[name]; ok && l.now().Before(expires) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("migration run %q is already in progress", name))
	}
	expires := l.now().Add(ttl)
	l.held[name] = expires

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[name].Equal(expires) {
			delete(l.held, name)
		}
		return nil
	}
	return release, nil
}
