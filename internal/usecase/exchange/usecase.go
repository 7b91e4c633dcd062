package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ExchangeUsecase interface {
	GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
	GetName() string
	IsHealthy(ctx context.Context) bool
	HealthCheck(ctx context.Context) map[string]error
	GetAvailableProviders() []string
	// Refresh fetches base/quote for every base from the providers and
	// overwrites the cached rates.
	Refresh(ctx context.Context, quote string, bases []string) error
}

type RateCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error
}

// DefaultExchangeUsecase asks providers in registration order and falls
// back to the next one, and to the inverse pair, when a provider fails.
type DefaultExchangeUsecase struct {
	providers []domain.ExchangeRateProvider
	cache     RateCache
	ttl       time.Duration
}

func NewDefaultExchangeUsecase(cache RateCache, ttl time.Duration, providers ...domain.ExchangeRateProvider) *DefaultExchangeUsecase {
	return &DefaultExchangeUsecase{
		providers: providers,
		cache:     cache,
		ttl:       ttl,
	}
}

func (uc *DefaultExchangeUsecase) GetName() string {
	return "exchange"
}

func (uc *DefaultExchangeUsecase) GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	if base == quote {
		return decimal.NewFromInt(1), nil
	}

	key := cacheKey(base, quote)
	if uc.cache != nil {
		rate, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("rate cache read failed", "pair", key, "error", err.Error())
		} else if ok {
			return rate, nil
		}
	}

	rate, err := uc.fetch(ctx, base, quote)
	if err != nil {
		return decimal.Zero, err
	}
	uc.store(ctx, key, rate)
	return rate, nil
}

func (uc *DefaultExchangeUsecase) fetch(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	if len(uc.providers) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no providers for %s/%s", domain.ErrRateUnavailable, base, quote)
	}

	var lastErr error
	for i, provider := range uc.providers {
		rate, err := provider.GetRate(ctx, base, quote)
		if err != nil || !rate.IsPositive() {
			inverse, invErr := provider.GetRate(ctx, quote, base)
			if invErr != nil || !inverse.IsPositive() {
				lastErr = errors.Join(err, invErr)
				continue
			}
			rate = decimal.NewFromInt(1).Div(inverse)
		}
		if i > 0 {
			slog.Warn("using fallback exchange provider",
				"primary", uc.providers[0].GetName(),
				"fallback", provider.GetName(),
				"pair", base+"/"+quote)
		}
		return rate, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s/%s: all providers failed: %v", domain.ErrRateUnavailable, base, quote, lastErr)
}

func (uc *DefaultExchangeUsecase) store(ctx context.Context, key string, rate decimal.Decimal) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, rate, uc.ttl); err != nil {
		slog.Warn("rate cache write failed", "pair", key, "error", err.Error())
	}
}

func (uc *DefaultExchangeUsecase) Refresh(ctx context.Context, quote string, bases []string) error {
	quote = strings.ToUpper(quote)
	var errs []error
	for _, base := range bases {
		base = strings.ToUpper(base)
		if base == quote {
			continue
		}
		rate, err := uc.fetch(ctx, base, quote)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		uc.store(ctx, cacheKey(base, quote), rate)
	}
	return errors.Join(errs...)
}

func (uc *DefaultExchangeUsecase) IsHealthy(ctx context.Context) bool {
	for _, provider := range uc.providers {
		if provider.IsHealthy(ctx) {
			return true
		}
	}
	return false
}

func (uc *DefaultExchangeUsecase) HealthCheck(ctx context.Context) map[string]error {
	unhealthy := make(map[string]error)
	for _, provider := range uc.providers {
		if !provider.IsHealthy(ctx) {
			unhealthy[provider.GetName()] = fmt.Errorf("provider %s is unhealthy", provider.GetName())
		}
	}
	return unhealthy
}

func (uc *DefaultExchangeUsecase) GetAvailableProviders() []string {
	names := make([]string, 0, len(uc.providers))
	for _, provider := range uc.providers {
		names = append(names, provider.GetName())
	}
	return names
}

func cacheKey(base, quote string) string {
	return "rate:" + base + ":" + quote
}
