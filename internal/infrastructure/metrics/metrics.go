package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// CompensationMetrics holds the ledger, commission and network metrics.
type CompensationMetrics struct {
	// Ledger
	TransactionsPostedTotal   *prometheus.CounterVec
	TransactionsPostedAmount  *prometheus.CounterVec
	TransactionsResolvedTotal *prometheus.CounterVec
	TransfersTotal            *prometheus.CounterVec

	// Commission
	CommissionCreditsTotal  *prometheus.CounterVec
	CommissionCreditsAmount *prometheus.CounterVec
	DistributionsTotal      *prometheus.CounterVec
	RedirectedAmountTotal   *prometheus.CounterVec

	// Network and career
	PlacementsTotal *prometheus.CounterVec
	PromotionsTotal *prometheus.CounterVec

	OperationDuration *prometheus.HistogramVec
	ErrorsTotal       *prometheus.CounterVec
}

// NewCompensationMetrics registers the metrics on reg; a nil reg means the
// default registerer.
func NewCompensationMetrics(reg prometheus.Registerer) *CompensationMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &CompensationMetrics{
		TransactionsPostedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_posted_total",
				Help: "Number of transactions appended to the ledger",
			},
			[]string{"kind", "currency"},
		),
		TransactionsPostedAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_posted_amount_total",
				Help: "Absolute amount of transactions appended to the ledger",
			},
			[]string{"kind", "currency"},
		),
		TransactionsResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_resolved_total",
				Help: "Pending transactions approved or rejected",
			},
			[]string{"kind", "status"},
		),
		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Member to member transfers by result",
			},
			[]string{"currency", "result"},
		),

		CommissionCreditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_credits_total",
				Help: "Commission credits posted per rule",
			},
			[]string{"rule_id", "currency"},
		),
		CommissionCreditsAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_credits_amount_total",
				Help: "Commission amount posted per rule",
			},
			[]string{"rule_id", "currency"},
		),
		DistributionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_distributions_total",
				Help: "Distribution runs by result (complete, partial, noop, failed)",
			},
			[]string{"result"},
		),
		RedirectedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_redirected_amount_total",
				Help: "Shares redirected to the system fund because of missing or inactive ancestors",
			},
			[]string{"currency"},
		),

		PlacementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "network_placements_total",
				Help: "Members placed in the network tree",
			},
			[]string{"plan", "spillover"},
		),
		PromotionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_promotions_total",
				Help: "Career level promotions by target level",
			},
			[]string{"level"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compensation_operation_duration_seconds",
				Help:    "Duration of engine operations",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compensation_errors_total",
				Help: "Errors by operation and type",
			},
			[]string{"operation", "error_type"},
		),
	}
}

func amountFloat(amount decimal.Decimal) float64 {
	f, _ := amount.Abs().Float64()
	return f
}

func (m *CompensationMetrics) RecordTransactionPosted(kind, currency string, amount decimal.Decimal) {
	m.TransactionsPostedTotal.WithLabelValues(kind, currency).Inc()
	m.TransactionsPostedAmount.WithLabelValues(kind, currency).Add(amountFloat(amount))
}

func (m *CompensationMetrics) RecordTransactionResolved(kind, status string) {
	m.TransactionsResolvedTotal.WithLabelValues(kind, status).Inc()
}

func (m *CompensationMetrics) RecordTransfer(currency, result string) {
	m.TransfersTotal.WithLabelValues(currency, result).Inc()
}

func (m *CompensationMetrics) RecordCommissionCredit(ruleID, currency string, amount decimal.Decimal) {
	m.CommissionCreditsTotal.WithLabelValues(ruleID, currency).Inc()
	m.CommissionCreditsAmount.WithLabelValues(ruleID, currency).Add(amountFloat(amount))
}

func (m *CompensationMetrics) RecordDistribution(result string) {
	m.DistributionsTotal.WithLabelValues(result).Inc()
}

func (m *CompensationMetrics) RecordRedirected(currency string, amount decimal.Decimal) {
	m.RedirectedAmountTotal.WithLabelValues(currency).Add(amountFloat(amount))
}

func (m *CompensationMetrics) RecordPlacement(plan string, spillover bool) {
	s := "false"
	if spillover {
		s = "true"
	}
	m.PlacementsTotal.WithLabelValues(plan, s).Inc()
}

func (m *CompensationMetrics) RecordPromotion(level string) {
	m.PromotionsTotal.WithLabelValues(level).Inc()
}

func (m *CompensationMetrics) RecordOperationDuration(operation string, seconds float64) {
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *CompensationMetrics) RecordError(operation, errorType string) {
	m.ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}
