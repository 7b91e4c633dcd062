package domain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type CareerLevel struct {
	Rank                 int
	Name                 string
	MinInvestment        decimal.Decimal
	MinDirectReferrals   int
	CommissionRate       decimal.Decimal
	PassiveRate          decimal.Decimal
	FlatBonus            decimal.Decimal
	RequiredDownlineRank int
}

// MemberStats are the inputs of career evaluation. MaxDownlineRank is the
// highest rank held by anyone in the member's sponsor downline.
type MemberStats struct {
	CumulativeInvestment decimal.Decimal
	DirectReferrals      int
	MaxDownlineRank      int
}

func (s MemberStats) HasQualifiedDownlineAtRank(rank int) bool {
	if rank <= 0 {
		return true
	}
	return s.MaxDownlineRank >= rank
}

// Satisfies reports whether the stats meet every requirement of the level.
func (l CareerLevel) Satisfies(stats MemberStats) bool {
	if stats.CumulativeInvestment.LessThan(l.MinInvestment) {
		return false
	}
	if stats.DirectReferrals < l.MinDirectReferrals {
		return false
	}
	return stats.HasQualifiedDownlineAtRank(l.RequiredDownlineRank)
}

// CareerTable is an immutable, validated, rank-ordered set of levels.
type CareerTable struct {
	levels []CareerLevel
}

func NewCareerTable(levels []CareerLevel) (*CareerTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels configured", ErrInvalidCareerLevels)
	}
	sorted := append([]CareerLevel(nil), levels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	for i, level := range sorted {
		if level.Rank != i+1 {
			return nil, fmt.Errorf("%w: ranks must be contiguous from 1, got %d at position %d", ErrInvalidCareerLevels, level.Rank, i+1)
		}
		if level.CommissionRate.IsNegative() || level.PassiveRate.IsNegative() || level.FlatBonus.IsNegative() {
			return nil, fmt.Errorf("%w: level %q has a negative rate or bonus", ErrInvalidCareerLevels, level.Name)
		}
		if level.RequiredDownlineRank < 0 || level.RequiredDownlineRank > len(sorted) {
			return nil, fmt.Errorf("%w: level %q requires unknown downline rank %d", ErrInvalidCareerLevels, level.Name, level.RequiredDownlineRank)
		}
	}
	entry := sorted[0]
	if entry.MinInvestment.IsPositive() || entry.MinDirectReferrals > 0 || entry.RequiredDownlineRank > 0 {
		return nil, fmt.Errorf("%w: rank 1 must have no requirements", ErrInvalidCareerLevels)
	}
	return &CareerTable{levels: sorted}, nil
}

func (t *CareerTable) Levels() []CareerLevel {
	return append([]CareerLevel(nil), t.levels...)
}

func (t *CareerTable) Entry() CareerLevel {
	return t.levels[0]
}

// ByRank clamps unknown ranks to the entry level.
func (t *CareerTable) ByRank(rank int) CareerLevel {
	if rank < 1 || rank > len(t.levels) {
		return t.levels[0]
	}
	return t.levels[rank-1]
}

type CareerRepository interface {
	GetRank(ctx context.Context, memberID string) (int, error)
	// PromoteRank stores rank only if it is higher than the stored one and
	// reports whether it did.
	PromoteRank(ctx context.Context, memberID string, rank int, at time.Time) (bool, error)
	LoadRanks(ctx context.Context) (map[string]int, error)
}
