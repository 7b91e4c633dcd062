package commission

import (
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
)

// Simulate runs the rule table and the career evaluator on hypothetical
// inputs. It reads and writes nothing.
func (uc *DefaultCommissionUsecase) Simulate(input *commissiondto.SimulationInput) (*commissiondto.SimulationOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if uc.career == nil {
		return nil, fmt.Errorf("simulation needs career levels")
	}
	evaluator := uc.career.Evaluator()
	table := evaluator.Table()

	inactive := make(map[int]struct{}, len(input.InactiveTiers))
	for _, tier := range input.InactiveTiers {
		inactive[tier] = struct{}{}
	}
	upline := make([]recipient, 0, len(input.UplineRanks))
	for i, rank := range input.UplineRanks {
		if uc.cfg.MaxDepth > 0 && i >= uc.cfg.MaxDepth {
			break
		}
		status := domain.MemberActive
		if _, off := inactive[i+1]; off {
			status = domain.MemberDeactivated
		}
		upline = append(upline, recipient{
			member: domain.Member{ID: fmt.Sprintf("tier-%d", i+1), Status: status},
			level:  table.ByRank(rank),
		})
	}

	s := uc.splitAmount(input.Amount, "", upline)

	after := input.PayerStats
	after.CumulativeInvestment = after.CumulativeInvestment.Add(input.Amount)
	out := &commissiondto.SimulationOutput{
		Amount:           input.Amount,
		PayerLevelBefore: evaluator.Evaluate(input.PayerStats),
		PayerLevelAfter:  evaluator.Evaluate(after),
	}
	for _, c := range s.credits {
		switch c.BeneficiaryID {
		case domain.SystemFundAccount:
			out.SystemFund = out.SystemFund.Add(c.Amount)
		case domain.PassivePoolAccount:
			out.PassivePool = out.PassivePool.Add(c.Amount)
		default:
			level := upline[c.Tier-1].level
			out.Shares = append(out.Shares, commissiondto.SimulatedShare{
				Tier:   c.Tier,
				RuleID: c.RuleID,
				Rank:   level.Rank,
				Level:  level.Name,
				Amount: c.Amount,
			})
		}
	}
	for _, r := range s.redirects {
		level := upline[r.tier-1].level
		out.Shares = append(out.Shares, commissiondto.SimulatedShare{
			Tier:       r.tier,
			Rank:       level.Rank,
			Level:      level.Name,
			Amount:     r.amount,
			Redirected: true,
		})
	}
	return out, nil
}
