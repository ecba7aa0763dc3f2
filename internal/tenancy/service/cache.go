package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "tenant:ext:"

// Cache memoizes external organization id to tenant id lookups.
type Cache interface {
	Get(ctx context.Context, externalOrgID string) (uuid.UUID, bool, error)
	Set(ctx context.Context, externalOrgID string, tenantID uuid.UUID) error
}

// RedisCache stores tenant ids as plain strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing go-redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

var _ Cache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, externalOrgID string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+externalOrgID).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// Corrupt entry; treat as a miss so the database wins.
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (c *RedisCache) Set(ctx context.Context, externalOrgID string, tenantID uuid.UUID) error {
	return c.client.Set(ctx, cacheKeyPrefix+externalOrgID, tenantID.String(), c.ttl).Err()
}

// noopCache is used when Redis is not configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (uuid.UUID, bool, error) { return uuid.Nil, false, nil }
func (noopCache) Set(context.Context, string, uuid.UUID) error         { return nil }
