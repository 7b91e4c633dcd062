package career

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Stats collects the evaluation inputs of a member: investment converted to
// the base currency, direct referral count and the best rank in the
// sponsor downline.
func (uc *DefaultCareerUsecase) Stats(ctx context.Context, memberID string) (domain.MemberStats, error) {
	investment, err := uc.investment(ctx, memberID)
	if err != nil {
		return domain.MemberStats{}, err
	}
	referrals, err := uc.network.DirectReferrals(ctx, memberID)
	if err != nil {
		return domain.MemberStats{}, err
	}
	maxRank, err := uc.maxDownlineRank(ctx, memberID)
	if err != nil {
		return domain.MemberStats{}, err
	}
	return domain.MemberStats{
		CumulativeInvestment: investment,
		DirectReferrals:      len(referrals),
		MaxDownlineRank:      maxRank,
	}, nil
}

func (uc *DefaultCareerUsecase) investment(ctx context.Context, memberID string) (decimal.Decimal, error) {
	byCurrency, err := uc.txRepo.InvestmentByCurrency(ctx, memberID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("investment of %s: %w", memberID, err)
	}
	total := decimal.Zero
	for currency, amount := range byCurrency {
		if currency == uc.baseCurrency {
			total = total.Add(amount)
			continue
		}
		if uc.rates == nil {
			return decimal.Zero, fmt.Errorf("%w: no rate feed for %s/%s", domain.ErrRateUnavailable, currency, uc.baseCurrency)
		}
		rate, err := uc.rates.GetRate(ctx, currency, uc.baseCurrency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s/%s: %v", domain.ErrRateUnavailable, currency, uc.baseCurrency, err)
		}
		total = total.Add(amount.Mul(rate))
	}
	return total, nil
}

func (uc *DefaultCareerUsecase) maxDownlineRank(ctx context.Context, memberID string) (int, error) {
	top := len(uc.evaluator.Table().Levels())
	best := 0
	var lookupErr error
	err := uc.network.SponsorDownline(ctx, memberID, func(m domain.Member) bool {
		rank, err := uc.careerRepo.GetRank(ctx, m.ID)
		if err != nil {
			lookupErr = err
			return false
		}
		if rank < 1 {
			rank = 1
		}
		if rank > best {
			best = rank
		}
		return best < top
	})
	if err != nil {
		return 0, err
	}
	if lookupErr != nil {
		return 0, fmt.Errorf("downline rank of %s: %w", memberID, lookupErr)
	}
	return best, nil
}
