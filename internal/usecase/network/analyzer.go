package network

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

type LegBalance struct {
	Left       int64   `json:"left"`
	Right      int64   `json:"right"`
	Ratio      float64 `json:"ratio"`
	IsBalanced bool    `json:"is_balanced"`
}

// LegBalance reads the cached leg sizes of a binary node. Ratio is
// |left-right|/(left+right), zero for two empty legs.
func (uc *DefaultNetworkUsecase) LegBalance(ctx context.Context, memberID string) (*LegBalance, error) {
	left, right, err := uc.legs(memberID)
	if err != nil {
		return nil, err
	}

	ratio := 0.0
	if total := left + right; total > 0 {
		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		ratio = float64(diff) / float64(total)
	}
	return &LegBalance{
		Left:       left,
		Right:      right,
		Ratio:      ratio,
		IsBalanced: ratio < uc.threshold,
	}, nil
}

// Recommendation returns the smaller leg, left on a tie.
func (uc *DefaultNetworkUsecase) Recommendation(ctx context.Context, memberID string) (domain.Side, error) {
	left, right, err := uc.legs(memberID)
	if err != nil {
		return domain.SideLeft, err
	}
	if right < left {
		return domain.SideRight, nil
	}
	return domain.SideLeft, nil
}

func (uc *DefaultNetworkUsecase) legs(memberID string) (int64, int64, error) {
	if uc.plan != domain.PlanBinary {
		return 0, 0, domain.ErrNotBinaryPlan
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	return node.LegSizes[domain.SideLeft], node.LegSizes[domain.SideRight], nil
}
