package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/shared/constants"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// SubscriptionExpiredMessage is the wire form of an expiry event.
type SubscriptionExpiredMessage struct {
	EventType      string `json:"event_type"`
	SubscriptionID uint   `json:"subscription_id"`
	VendorID       uint   `json:"vendor_id"`
	PlanID         uint   `json:"plan_id"`
	EndDate        string `json:"end_date"`
	QuotaReset     bool   `json:"quota_reset"`
	Timestamp      int64  `json:"timestamp"`
}

// RedisSubscriptionEventBus publishes lifecycle events over Redis Pub/Sub so
// lead routing services can stop deliveries without polling.
type RedisSubscriptionEventBus struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisSubscriptionEventBus creates a new Redis-based subscription event bus
func NewRedisSubscriptionEventBus(client *redis.Client, logger logger.Interface) *RedisSubscriptionEventBus {
	return &RedisSubscriptionEventBus{
		client: client,
		logger: logger,
	}
}

// PublishExpired publishes a subscription expiry event
func (b *RedisSubscriptionEventBus) PublishExpired(ctx context.Context, event *subscription.SubscriptionExpiredEvent) error {
	msg := SubscriptionExpiredMessage{
		EventType:      event.GetEventType(),
		SubscriptionID: event.SubscriptionID,
		VendorID:       event.VendorID,
		PlanID:         event.PlanID,
		EndDate:        event.EndDate.UTC().Format(time.RFC3339),
		QuotaReset:     event.QuotaReset,
		Timestamp:      event.Timestamp.Unix(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, constants.ChannelSubscriptionExpired, data).Err(); err != nil {
		b.logger.Errorw("failed to publish subscription expired event",
			"subscription_id", event.SubscriptionID,
			"vendor_id", event.VendorID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("subscription expired event published",
		"subscription_id", event.SubscriptionID,
		"vendor_id", event.VendorID,
	)
	return nil
}

// NopEventPublisher is used when Redis is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishExpired(context.Context, *subscription.SubscriptionExpiredEvent) error {
	return nil
}
