package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type RedisRateCache struct {
	client *redis.Client
	prefix string
}

func NewRedisRateCache(client *redis.Client, prefix string) *RedisRateCache {
	return &RedisRateCache{client: client, prefix: prefix}
}

func (c *RedisRateCache) Get(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached rate %s: %w", key, err)
	}
	return rate, true, nil
}

func (c *RedisRateCache) Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, rate.String(), ttl).Err()
}
