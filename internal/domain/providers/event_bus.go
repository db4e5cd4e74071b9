package providers

import (
	"context"

	"github.com/zatekoja/recipemigration/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MigrationEvent) error

	// Subscribe subscribes to events on a channel. The returned channel is closed
	// when ctx is done or the bus is closed.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MigrationEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelMigrations carries progress events of every migration run
const EventChannelMigrations = "migration:events"
