package commission

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type recipient struct {
	member domain.Member
	level  domain.CareerLevel
}

type redirect struct {
	tier     int
	memberID string
	reason   string
	amount   decimal.Decimal
}

type split struct {
	credits   []domain.CommissionCredit
	redirects []redirect
}

func (s *split) redirected() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.redirects {
		total = total.Add(r.amount)
	}
	return total
}

// splitAmount applies the rule table to amount over the upline, nearest
// first. Shares are truncated to the configured precision; truncation
// residue, shares below the minimum payable unit, unused career budget and
// shares of inactive or unknown members all end up in the system-fund
// credit, which is computed last so the credits always add up to amount.
func (uc *DefaultCommissionUsecase) splitAmount(amount decimal.Decimal, currency string, upline []recipient) *split {
	s := &split{}
	pay := func(ruleID string, tier int, beneficiary string, share decimal.Decimal) {
		paid := share.Truncate(uc.cfg.Precision)
		if !paid.IsPositive() || paid.LessThan(uc.cfg.MinPayableUnit) {
			return
		}
		s.credits = append(s.credits, domain.CommissionCredit{
			BeneficiaryID: beneficiary,
			RuleID:        ruleID,
			Tier:          tier,
			Amount:        paid,
			Currency:      currency,
		})
	}
	divert := func(tier int, r recipient, share decimal.Decimal) {
		reason := "member deactivated"
		if r.member.Status == domain.MemberUnknown {
			reason = "member unresolvable"
		}
		s.redirects = append(s.redirects, redirect{tier: tier, memberID: r.member.ID, reason: reason, amount: share})
	}

	for _, rule := range uc.table.Rules() {
		budget := rule.Share(amount)
		switch rule.Kind {
		case domain.RuleSponsor:
			if len(upline) == 0 {
				continue
			}
			if !upline[0].member.IsActive() {
				divert(1, upline[0], budget)
				continue
			}
			pay(rule.ID, 1, upline[0].member.ID, budget)
		case domain.RuleCareer:
			remaining := budget
			for i, r := range upline {
				if !remaining.IsPositive() {
					break
				}
				share := amount.Mul(r.level.CommissionRate).Div(hundred)
				if share.GreaterThan(remaining) {
					share = remaining
				}
				if !share.IsPositive() {
					continue
				}
				remaining = remaining.Sub(share)
				if !r.member.IsActive() {
					divert(i+1, r, share)
					continue
				}
				pay(rule.ID, i+1, r.member.ID, share)
			}
		case domain.RulePassive:
			pay(rule.ID, 0, domain.PassivePoolAccount, budget)
		}
	}

	paid := decimal.Zero
	for _, c := range s.credits {
		paid = paid.Add(c.Amount)
	}
	if system := amount.Sub(paid); system.IsPositive() {
		s.credits = append(s.credits, domain.CommissionCredit{
			BeneficiaryID: domain.SystemFundAccount,
			RuleID:        uc.table.SystemRule().ID,
			Amount:        system,
			Currency:      currency,
			Redirected:    len(s.redirects) > 0,
		})
	}
	return s
}
