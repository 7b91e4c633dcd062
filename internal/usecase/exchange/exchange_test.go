package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
)

type stubProvider struct {
	name    string
	rates   map[string]decimal.Decimal
	calls   int
	healthy bool
}

func (p *stubProvider) GetName() string { return p.name }

func (p *stubProvider) IsHealthy(ctx context.Context) bool { return p.healthy }

func (p *stubProvider) GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	p.calls++
	rate, ok := p.rates[base+"/"+quote]
	if !ok {
		return decimal.Zero, errors.New("pair not listed")
	}
	return rate, nil
}

func TestGetRate(t *testing.T) {
	primary := &stubProvider{name: "primary", rates: map[string]decimal.Decimal{
		"EUR/USD": decimal.RequireFromString("1.10"),
		"USD/GBP": decimal.RequireFromString("0.80"),
	}}
	fallback := &stubProvider{name: "fallback", rates: map[string]decimal.Decimal{
		"BTC/USD": decimal.NewFromInt(60000),
	}}
	uc := NewDefaultExchangeUsecase(memory.NewRateCache(), time.Minute, primary, fallback)
	ctx := context.Background()

	tests := []struct {
		name        string
		base, quote string
		want        string
	}{
		{"identity", "usd", "USD", "1"},
		{"direct", "EUR", "USD", "1.1"},
		{"inverse pair", "GBP", "USD", "1.25"},
		{"fallback provider", "BTC", "USD", "60000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.GetRate(ctx, tt.base, tt.quote)
			if err != nil {
				t.Fatalf("GetRate() error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("GetRate(%s/%s) = %s, want %s", tt.base, tt.quote, got, tt.want)
			}
		})
	}

	if _, err := uc.GetRate(ctx, "XYZ", "USD"); !errors.Is(err, domain.ErrRateUnavailable) {
		t.Errorf("GetRate(unknown) error = %v, want ErrRateUnavailable", err)
	}
}

func TestGetRate_Cached(t *testing.T) {
	p := &stubProvider{name: "p", rates: map[string]decimal.Decimal{"EUR/USD": decimal.RequireFromString("1.1")}}
	uc := NewDefaultExchangeUsecase(memory.NewRateCache(), time.Minute, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := uc.GetRate(ctx, "EUR", "USD"); err != nil {
			t.Fatal(err)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}

	p.rates["EUR/USD"] = decimal.RequireFromString("1.2")
	if err := uc.Refresh(ctx, "USD", []string{"EUR", "USD"}); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	got, _ := uc.GetRate(ctx, "EUR", "USD")
	if !got.Equal(decimal.RequireFromString("1.2")) {
		t.Errorf("rate after refresh = %s, want 1.2", got)
	}
}

func TestHealthCheck(t *testing.T) {
	up := &stubProvider{name: "up", healthy: true}
	down := &stubProvider{name: "down"}
	uc := NewDefaultExchangeUsecase(nil, 0, down, up)

	if !uc.IsHealthy(context.Background()) {
		t.Error("IsHealthy() = false with one healthy provider")
	}
	report := uc.HealthCheck(context.Background())
	if _, bad := report["down"]; !bad || len(report) != 1 {
		t.Errorf("HealthCheck() = %v, want only down", report)
	}
	if got := uc.GetAvailableProviders(); len(got) != 2 || got[0] != "down" {
		t.Errorf("GetAvailableProviders() = %v", got)
	}
}
