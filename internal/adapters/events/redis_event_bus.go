package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	redisclient "github.com/zatekoja/recipemigration/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so that
// runs started by the CLI show up on every serving instance.
type RedisEventBus struct {
	client        *redisclient.Client
	subscribers   *subscriberSet
	subscriptions map[string]*redis.PubSub
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscribers:   newSubscriberSet(),
		subscriptions: make(map[string]*redis.PubSub),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.MigrationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("event_type", string(event.EventType)).Msg("Published event")
	return nil
}

// Subscribe subscribes to events on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MigrationEvent, error) {
	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			b.mu.Unlock()
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	eventChan := b.subscribers.add(channel)
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("subscribers", b.subscribers.count(channel)).Msg("Subscribed to channel")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		if b.subscribers.remove(channel, eventChan) {
			b.closeIdleSubscription(channel)
		}
	}()

	return eventChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			b.dispatch(channel, msg.Payload)
		}
	}
}

// dispatch decodes one Pub/Sub payload and fans it out to local subscribers
func (b *RedisEventBus) dispatch(channel, payload string) {
	var event entities.MigrationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal event")
		return
	}
	b.subscribers.broadcast(channel, &event)
}

func (b *RedisEventBus) closeSubscription(channel string) error {
	b.mu.Lock()
	pubsub, ok := b.subscriptions[channel]
	delete(b.subscriptions, channel)
	b.mu.Unlock()

	if !ok {
		return nil
	}
	if err := pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Msg("Closed subscription to channel")
	return nil
}

// closeIdleSubscription drops the Redis subscription unless a subscriber joined meanwhile
func (b *RedisEventBus) closeIdleSubscription(channel string) {
	b.mu.Lock()
	if b.subscribers.count(channel) > 0 {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	if err := b.closeSubscription(channel); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("Failed to close idle subscription")
	}
}

// Unsubscribe unsubscribes from a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.subscribers.closeChannel(channel)
	return b.closeSubscription(channel)
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	channels := make([]string, 0, len(b.subscriptions))
	for channel := range b.subscriptions {
		channels = append(channels, channel)
	}
	b.mu.Unlock()

	var errs []error
	for _, channel := range channels {
		b.subscribers.closeChannel(channel)
		if err := b.closeSubscription(channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
