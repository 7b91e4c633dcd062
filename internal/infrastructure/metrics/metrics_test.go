package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestCompensationMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCompensationMetrics(reg)

	m.RecordTransactionPosted("DEPOSIT", "USD", decimal.NewFromInt(-250))
	m.RecordTransactionPosted("DEPOSIT", "USD", decimal.NewFromInt(50))
	m.RecordCommissionCredit("career", "USD", decimal.NewFromInt(30))
	m.RecordPlacement("binary", true)

	if got := testutil.ToFloat64(m.TransactionsPostedTotal.WithLabelValues("DEPOSIT", "USD")); got != 2 {
		t.Errorf("posted total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.TransactionsPostedAmount.WithLabelValues("DEPOSIT", "USD")); got != 300 {
		t.Errorf("posted amount = %v, want 300", got)
	}
	if got := testutil.ToFloat64(m.CommissionCreditsAmount.WithLabelValues("career", "USD")); got != 30 {
		t.Errorf("credit amount = %v, want 30", got)
	}
	if got := testutil.ToFloat64(m.PlacementsTotal.WithLabelValues("binary", "true")); got != 1 {
		t.Errorf("placements = %v, want 1", got)
	}
}

func TestNewCompensationMetrics_SeparateRegistries(t *testing.T) {
	// Two instances on separate registries must not collide.
	NewCompensationMetrics(prometheus.NewRegistry())
	NewCompensationMetrics(prometheus.NewRegistry())
}
