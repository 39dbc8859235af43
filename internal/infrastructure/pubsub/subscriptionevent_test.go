package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/shared/constants"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

func TestRedisSubscriptionEventBus_PublishExpired(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// downstream consumers subscribe to the channel directly
	sub := client.Subscribe(ctx, constants.ChannelSubscriptionExpired)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	bus := NewRedisSubscriptionEventBus(client, logger.NewNopLogger())

	end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	event := &subscription.SubscriptionExpiredEvent{
		SubscriptionID: 11,
		VendorID:       4,
		PlanID:         2,
		EndDate:        end,
		QuotaReset:     true,
		Timestamp:      end.Add(27 * time.Hour),
	}
	require.NoError(t, bus.PublishExpired(ctx, event))

	var raw *redis.Message
	select {
	case raw = <-sub.Channel():
	case <-ctx.Done():
		t.Fatal("expiry event not delivered")
	}

	var msg SubscriptionExpiredMessage
	require.NoError(t, json.Unmarshal([]byte(raw.Payload), &msg))
	assert.Equal(t, "subscription.expired", msg.EventType)
	assert.Equal(t, uint(11), msg.SubscriptionID)
	assert.Equal(t, uint(4), msg.VendorID)
	assert.Equal(t, uint(2), msg.PlanID)
	assert.True(t, msg.QuotaReset)
	assert.Equal(t, "2026-03-09T00:00:00Z", msg.EndDate)
	assert.Equal(t, end.Add(27*time.Hour).Unix(), msg.Timestamp)
}

func TestRedisSubscriptionEventBus_PublishFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	bus := NewRedisSubscriptionEventBus(client, logger.NewNopLogger())
	err = bus.PublishExpired(context.Background(), &subscription.SubscriptionExpiredEvent{SubscriptionID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestNopEventPublisher(t *testing.T) {
	assert.NoError(t, NopEventPublisher{}.PublishExpired(context.Background(), &subscription.SubscriptionExpiredEvent{}))
}
