package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

func TestLocalRunLock_ExclusiveUntilReleased(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalRunLock()

	release, err := lock.Acquire(ctx, "batch", time.Minute)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "batch", time.Minute)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	_, err = lock.Acquire(ctx, "other", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = lock.Acquire(ctx, "batch", time.Minute)
	assert.NoError(t, err)
}

func TestLocalRunLock_ExpiredLockCanBeTaken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lock := NewLocalRunLock()
	lock.now = func() time.Time { return now }

	staleRelease, err := lock.Acquire(ctx, "batch", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = lock.Acquire(ctx, "batch", time.Minute)
	require.NoError(t, err)

	// a stale release must not drop the new holder's lock
	require.NoError(t, staleRelease(ctx))
	_, err = lock.Acquire(ctx, "batch", time.Minute)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}
