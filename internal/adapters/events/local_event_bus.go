package events

import (
	"context"
	"sync/atomic"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	apperrors "github.com/zatekoja/recipemigration/pkg/errors"
)

// LocalEventBus delivers events within one process. Used when Redis is not configured.
type LocalEventBus struct {
	subscribers *subscriberSet
	done        chan struct{}
	closed      atomic.Bool
}

var _ providers.EventBus = (*LocalEventBus)(nil)

// NewLocalEventBus creates an in-process event bus
func NewLocalEventBus() *LocalEventBus {
	return &LocalEventBus{subscribers: newSubscriberSet(), done: make(chan struct{})}
}

func (b *LocalEventBus) Publish(ctx context.Context, channel string, event *entities.MigrationEvent) error {
	if b.closed.Load() {
		return apperrors.NewInternalError("event bus is closed", nil)
	}
	b.subscribers.broadcast(channel, event)
	return nil
}

func (b *LocalEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MigrationEvent, error) {
	if b.closed.Load() {
		return nil, apperrors.NewInternalError("event bus is closed", nil)
	}
	eventChan := b.subscribers.add(channel)

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.subscribers.remove(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *LocalEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.subscribers.closeChannel(channel)
	return nil
}

func (b *LocalEventBus) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	close(b.done)
	for _, channel := range b.subscribers.channels() {
		b.subscribers.closeChannel(channel)
	}
	return nil
}
