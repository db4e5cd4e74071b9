package events

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/recipemigration/internal/domain/entities"
	"github.com/zatekoja/recipemigration/internal/domain/providers"
	"github.com/zatekoja/recipemigration/internal/infrastructure/clients/redis"
	"github.com/zatekoja/recipemigration/pkg/config"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping Redis test: TEST_REDIS_HOST not set")
	}

	port, _ := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if port == 0 {
		port = 6379
	}
	client, err := redis.NewClient(&config.RedisConfig{
		Enabled:  true,
		Host:     host,
		Port:     port,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisEventBus_DispatchFansOutDecodedEvents(t *testing.T) {
	bus := NewRedisEventBus(nil)
	sub := bus.subscribers.add(providers.EventChannelMigrations)

	event := entities.NewMigrationEvent("run-7", entities.MigrationEventRunFinished)
	event.Summary = &entities.MigrationSummary{RunID: "run-7", SuccessCount: 3}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	bus.dispatch(providers.EventChannelMigrations, "{not json")
	bus.dispatch(providers.EventChannelMigrations, string(payload))

	got := receive(t, sub)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, entities.MigrationEventRunFinished, got.EventType)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 3, got.Summary.SuccessCount)

	select {
	case extra := <-sub:
		t.Fatalf("unexpected event %+v", extra)
	default:
	}
}

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	client := newTestRedisClient(t)
	bus := NewRedisEventBus(client)
	t.Cleanup(func() { bus.Close() })

	channel := providers.EventChannelMigrations + ":test:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()

	first, err := bus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	second, err := bus.Subscribe(context.Background(), channel)
	require.NoError(t, err)

	event := entities.NewMigrationEvent("run-1", entities.MigrationEventRunStarted)
	require.NoError(t, bus.Publish(context.Background(), channel, event))

	assert.Equal(t, event.ID, receive(t, first).ID)
	assert.Equal(t, event.ID, receive(t, second).ID)

	cancel1()
	waitClosed(t, first)

	next := entities.NewMigrationEvent("run-1", entities.MigrationEventRunFinished)
	require.NoError(t, bus.Publish(context.Background(), channel, next))
	assert.Equal(t, next.ID, receive(t, second).ID)

	require.NoError(t, bus.Close())
	waitClosed(t, second)
}

func TestRedisEventBus_SeparateBusesShareEvents(t *testing.T) {
	client := newTestRedisClient(t)
	publisher := NewRedisEventBus(client)
	subscriber := NewRedisEventBus(client)
	t.Cleanup(func() {
		publisher.Close()
		subscriber.Close()
	})

	channel := providers.EventChannelMigrations + ":shared:" + strconv.FormatInt(time.Now().UnixNano(), 10)
	sub, err := subscriber.Subscribe(context.Background(), channel)
	require.NoError(t, err)

	event := entities.NewMigrationEvent("run-2", entities.MigrationEventDocumentMigrated)
	event.SourceID = "p1"
	require.NoError(t, publisher.Publish(context.Background(), channel, event))

	got := receive(t, sub)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "p1", got.SourceID)
}
