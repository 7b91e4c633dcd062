package career

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

// Reevaluate recomputes the member's level and commits it when it is higher
// than the stored one. Levels never go down. Flat bonuses of every newly
// reached level are paid from the system fund before the rank is stored,
// keyed so that a retry cannot pay twice.
func (uc *DefaultCareerUsecase) Reevaluate(ctx context.Context, memberID string) (*domain.PromotionEvent, error) {
	member, err := uc.network.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, nil
	}

	current, err := uc.careerRepo.GetRank(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get rank %s: %w", memberID, err)
	}
	if current < 1 {
		current = 1
	}
	stats, err := uc.Stats(ctx, memberID)
	if err != nil {
		return nil, err
	}
	level := uc.evaluator.Evaluate(stats)
	if level.Rank <= current {
		return nil, nil
	}

	for rank := current + 1; rank <= level.Rank; rank++ {
		if err := uc.payFlatBonus(ctx, memberID, uc.evaluator.Table().ByRank(rank)); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	promoted, err := uc.careerRepo.PromoteRank(ctx, memberID, level.Rank, now)
	if err != nil {
		return nil, fmt.Errorf("promote %s: %w", memberID, err)
	}
	if !promoted {
		return nil, nil
	}

	event := domain.PromotionEvent{
		MemberID:   memberID,
		FromRank:   current,
		ToRank:     level.Rank,
		LevelName:  level.Name,
		OccurredAt: now,
	}
	slog.Info("member promoted", "member_id", memberID, "from_rank", current, "to_rank", level.Rank, "level", level.Name)
	if uc.Metrics != nil {
		uc.Metrics.RecordPromotion(level.Name)
	}
	if uc.publisher != nil {
		go func() {
			if err := uc.publisher.PublishPromotion(context.Background(), event); err != nil {
				slog.Error("failed to publish promotion event", "member_id", memberID, "error", err.Error())
			}
		}()
	}
	return &event, nil
}

func bonusOrigin(memberID string, rank int) string {
	return fmt.Sprintf("promotion:%s:%d", memberID, rank)
}

func (uc *DefaultCareerUsecase) payFlatBonus(ctx context.Context, memberID string, level domain.CareerLevel) error {
	if !level.FlatBonus.IsPositive() || uc.ledger == nil {
		return nil
	}
	origin := bonusOrigin(memberID, level.Rank)
	keys, err := uc.txRepo.CreditKeys(ctx, origin)
	if err != nil {
		return fmt.Errorf("bonus keys %s: %w", origin, err)
	}
	if len(keys) > 0 {
		return nil
	}

	_, err = uc.ledger.PostBatch(ctx, []*domain.Transaction{
		{
			MemberID:            memberID,
			Currency:            uc.baseCurrency,
			Amount:              level.FlatBonus,
			Kind:                domain.KindCommissionCredit,
			OriginTransactionID: origin,
			RuleID:              domain.RuleFlatBonus,
			CounterpartyID:      domain.SystemFundAccount,
			Description:         fmt.Sprintf("flat bonus for reaching %s", level.Name),
		},
		{
			MemberID:            domain.SystemFundAccount,
			Currency:            uc.baseCurrency,
			Amount:              level.FlatBonus.Neg(),
			Kind:                domain.KindCommissionCredit,
			OriginTransactionID: origin,
			RuleID:              domain.RuleFlatBonus,
			CounterpartyID:      memberID,
			Description:         fmt.Sprintf("flat bonus paid to %s", memberID),
		},
	})
	if errors.Is(err, domain.ErrInvalidTransaction) {
		// Lost a race with a concurrent evaluation that paid the same bonus.
		return nil
	}
	if err != nil {
		return fmt.Errorf("pay flat bonus to %s: %w", memberID, err)
	}
	return nil
}

// ReevaluateChain re-runs evaluation for the member and then for each
// upline member nearest first, so a promotion can enable the next one up.
func (uc *DefaultCareerUsecase) ReevaluateChain(ctx context.Context, memberID string, depth int) ([]domain.PromotionEvent, error) {
	upline, err := uc.network.Upline(ctx, memberID, depth)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(upline)+1)
	ids = append(ids, memberID)
	for _, m := range upline {
		if m.IsActive() {
			ids = append(ids, m.ID)
		}
	}

	var promotions []domain.PromotionEvent
	var errs []error
	for _, id := range ids {
		event, err := uc.Reevaluate(ctx, id)
		if err != nil {
			slog.Error("career reevaluation failed", "member_id", id, "error", err.Error())
			errs = append(errs, err)
			continue
		}
		if event != nil {
			promotions = append(promotions, *event)
		}
	}
	return promotions, errors.Join(errs...)
}
