package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func TestRedisRateCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisRateCache(client, "compensation:")
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "rate:EUR:USD"); err == nil || ok {
		t.Errorf("Get() = ok %v, err %v; want a miss with an error", ok, err)
	}
	if err := c.Set(ctx, "rate:EUR:USD", decimal.NewFromInt(1), time.Minute); err == nil {
		t.Error("Set() error = nil, want error")
	}
}
