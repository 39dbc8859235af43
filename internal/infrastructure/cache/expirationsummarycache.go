package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadhub/leadhub/internal/domain/subscription"
	"github.com/leadhub/leadhub/internal/shared/constants"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

// ExpirationSummaryTTL bounds how stale the admin summary may be.
const ExpirationSummaryTTL = 60 * time.Second

// ExpirationSummaryCache stores the latest expiration summary.
type ExpirationSummaryCache interface {
	Get(ctx context.Context) (*subscription.ExpirationSummary, error)
	Set(ctx context.Context, summary *subscription.ExpirationSummary) error
	Invalidate(ctx context.Context) error
}

// RedisExpirationSummaryCache implements ExpirationSummaryCache as a single JSON string key.
type RedisExpirationSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisExpirationSummaryCache(client *redis.Client, logger logger.Interface) *RedisExpirationSummaryCache {
	return &RedisExpirationSummaryCache{
		client: client,
		ttl:    ExpirationSummaryTTL,
		logger: logger,
	}
}

// Get returns (nil, nil) on a cache miss.
func (c *RedisExpirationSummaryCache) Get(ctx context.Context) (*subscription.ExpirationSummary, error) {
	raw, err := c.client.Get(ctx, constants.CacheKeyExpirationSummary).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expiration summary from cache: %w", err)
	}

	var summary subscription.ExpirationSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// drop the corrupt entry so the next call repopulates it
		_ = c.client.Del(ctx, constants.CacheKeyExpirationSummary).Err()
		return nil, fmt.Errorf("failed to decode cached expiration summary: %w", err)
	}
	return &summary, nil
}

func (c *RedisExpirationSummaryCache) Set(ctx context.Context, summary *subscription.ExpirationSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode expiration summary: %w", err)
	}
	if err := c.client.Set(ctx, constants.CacheKeyExpirationSummary, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache expiration summary: %w", err)
	}
	return nil
}

// Invalidate is called after a pass changed subscription state.
func (c *RedisExpirationSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, constants.CacheKeyExpirationSummary).Err(); err != nil {
		c.logger.Warnw("failed to invalidate expiration summary cache", "error", err)
		return fmt.Errorf("failed to invalidate expiration summary cache: %w", err)
	}
	return nil
}
