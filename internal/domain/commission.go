package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type RuleKind string

const (
	RuleSponsor    RuleKind = "sponsor"
	RuleCareer     RuleKind = "career"
	RulePassive    RuleKind = "passive"
	RuleSystemFund RuleKind = "system-fund"
)

// Rule ids used for postings that are not produced by the configured table.
const (
	RuleFunding   = "funding"
	RuleFlatBonus = "flat-bonus"
	RulePayout    = "passive-payout"
)

var hundred = decimal.NewFromInt(100)

type CommissionRule struct {
	ID   string
	Kind RuleKind
	Rate decimal.Decimal
}

// Share returns amount × rate / 100 without rounding.
func (r CommissionRule) Share(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate).Div(hundred)
}

// CommissionTable is the validated distribution rule set of a plan.
type CommissionTable struct {
	rules      []CommissionRule
	systemRule CommissionRule
}

func NewCommissionTable(rules []CommissionRule) (*CommissionTable, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidCommissionTable)
	}
	seen := make(map[string]struct{}, len(rules))
	total := decimal.Zero
	var system *CommissionRule
	for i, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("%w: rule %d has no id", ErrInvalidCommissionTable, i)
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %q", ErrInvalidCommissionTable, rule.ID)
		}
		seen[rule.ID] = struct{}{}
		switch rule.Kind {
		case RuleSponsor, RuleCareer, RulePassive:
		case RuleSystemFund:
			if system != nil {
				return nil, fmt.Errorf("%w: more than one system-fund rule", ErrInvalidCommissionTable)
			}
			r := rules[i]
			system = &r
		default:
			return nil, fmt.Errorf("%w: rule %q has unknown kind %q", ErrInvalidCommissionTable, rule.ID, rule.Kind)
		}
		if rule.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: rule %q has a negative rate", ErrInvalidCommissionTable, rule.ID)
		}
		total = total.Add(rule.Rate)
	}
	if system == nil {
		return nil, fmt.Errorf("%w: a system-fund rule is required", ErrInvalidCommissionTable)
	}
	if !total.Equal(hundred) {
		return nil, fmt.Errorf("%w: rates sum to %s, want 100", ErrInvalidCommissionTable, total.String())
	}
	return &CommissionTable{
		rules:      append([]CommissionRule(nil), rules...),
		systemRule: *system,
	}, nil
}

func (t *CommissionTable) Rules() []CommissionRule {
	return append([]CommissionRule(nil), t.rules...)
}

func (t *CommissionTable) SystemRule() CommissionRule {
	return t.systemRule
}

func (t *CommissionTable) TotalRate() decimal.Decimal {
	total := decimal.Zero
	for _, rule := range t.rules {
		total = total.Add(rule.Rate)
	}
	return total
}

type CommissionCredit struct {
	TransactionID       string
	OriginTransactionID string
	BeneficiaryID       string
	RuleID              string
	Tier                int
	Amount              decimal.Decimal
	Currency            string
	Redirected          bool
}

// DistributionLog records a distribution run that redirected shares to the
// system fund, for reconciliation.
type DistributionLog struct {
	ID                  uint
	OriginTransactionID string
	MemberID            string
	Reason              string
	RedirectedAmount    decimal.Decimal
	Currency            string
	CreatedAt           time.Time
}

type DistributionLogger interface {
	LogPartialFailure(ctx context.Context, entry DistributionLog) error
}
