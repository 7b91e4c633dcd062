package mappers

import (
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
)

func ToPBCredits(credits []domain.CommissionCredit) []*compensationpb.Credit {
	out := make([]*compensationpb.Credit, len(credits))
	for i, c := range credits {
		out[i] = &compensationpb.Credit{
			TransactionID:       c.TransactionID,
			OriginTransactionID: c.OriginTransactionID,
			BeneficiaryID:       c.BeneficiaryID,
			RuleID:              c.RuleID,
			Tier:                c.Tier,
			Amount:              c.Amount,
			Currency:            c.Currency,
			Redirected:          c.Redirected,
		}
	}
	return out
}

func ToPBCareerLevel(l domain.CareerLevel) *compensationpb.CareerLevel {
	return &compensationpb.CareerLevel{
		Rank:                 l.Rank,
		Name:                 l.Name,
		MinInvestment:        l.MinInvestment,
		MinDirectReferrals:   l.MinDirectReferrals,
		CommissionRate:       l.CommissionRate,
		PassiveRate:          l.PassiveRate,
		FlatBonus:            l.FlatBonus,
		RequiredDownlineRank: l.RequiredDownlineRank,
	}
}

func ToPBStats(s domain.MemberStats) *compensationpb.MemberStats {
	return &compensationpb.MemberStats{
		CumulativeInvestment: s.CumulativeInvestment,
		DirectReferrals:      s.DirectReferrals,
		MaxDownlineRank:      s.MaxDownlineRank,
	}
}

func ToDomainStats(s *compensationpb.MemberStats) domain.MemberStats {
	if s == nil {
		return domain.MemberStats{}
	}
	return domain.MemberStats{
		CumulativeInvestment: s.CumulativeInvestment,
		DirectReferrals:      s.DirectReferrals,
		MaxDownlineRank:      s.MaxDownlineRank,
	}
}

func ToPBSimulation(out *commissiondto.SimulationOutput) *compensationpb.SimulateResponse {
	shares := make([]*compensationpb.SimulatedShare, len(out.Shares))
	for i, s := range out.Shares {
		shares[i] = &compensationpb.SimulatedShare{
			Tier:       s.Tier,
			RuleID:     s.RuleID,
			Rank:       s.Rank,
			Level:      s.Level,
			Amount:     s.Amount,
			Redirected: s.Redirected,
		}
	}
	return &compensationpb.SimulateResponse{
		Amount:           out.Amount,
		PayerLevelBefore: ToPBCareerLevel(out.PayerLevelBefore),
		PayerLevelAfter:  ToPBCareerLevel(out.PayerLevelAfter),
		Shares:           shares,
		PassivePool:      out.PassivePool,
		SystemFund:       out.SystemFund,
	}
}
