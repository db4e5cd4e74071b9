package providers

import (
	"context"
	"time"
)

// RunLock guarantees that only one orchestrator owns a named migration run.
type RunLock interface {
	// Acquire takes the lock for ttl. It fails with a CONFLICT AppError when the lock is held.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, err error)
}
