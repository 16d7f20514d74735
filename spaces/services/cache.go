package services

import (
	"context"
	"errors"
	"time"

	"parking-marketplace-backend/utils"

	"github.com/redis/go-redis/v9"
)

const nearbyCacheResource = "spaces_nearby"

// NearbyCache stores serialized nearby-search results.
type NearbyCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type RedisNearbyCache struct {
	rdb *redis.Client
}

func NewRedisNearbyCache(rdb *redis.Client) *RedisNearbyCache {
	return &RedisNearbyCache{rdb: rdb}
}

func (c *RedisNearbyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisNearbyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisNearbyCache) Invalidate(ctx context.Context) error {
	return utils.InvalidateCache(ctx, c.rdb, nearbyCacheResource)
}
