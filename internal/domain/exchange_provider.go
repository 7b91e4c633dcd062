package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeRateProvider returns how many units of quote one unit of base buys.
type ExchangeRateProvider interface {
	GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error)
	GetName() string
	IsHealthy(ctx context.Context) bool
}
