package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type cachedRate struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// RateCache keeps exchange rates in process until their ttl passes.
type RateCache struct {
	mu    sync.RWMutex
	rates map[string]cachedRate
}

func NewRateCache() *RateCache {
	return &RateCache{rates: make(map[string]cachedRate)}
}

func (c *RateCache) Get(ctx context.Context, key string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.rates[key]
	if !ok || time.Now().After(cached.expiresAt) {
		return decimal.Zero, false, nil
	}
	return cached.rate, true, nil
}

func (c *RateCache) Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[key] = cachedRate{rate: rate, expiresAt: time.Now().Add(ttl)}
	return nil
}
