package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

// Distribute splits a qualifying transaction across the payer's upline and
// posts every credit in one batch. Re-running it for the same transaction
// posts nothing new. When shares had to be redirected to the system fund the
// credits are returned together with ErrDistributionPartialFailure.
func (uc *DefaultCommissionUsecase) Distribute(ctx context.Context, transactionID string) ([]domain.CommissionCredit, error) {
	start := time.Now()
	unlock := uc.locks.Lock(transactionID)
	defer unlock()

	tx, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.IsQualifying() {
		return nil, fmt.Errorf("%w: %s %s is %s", domain.ErrNotQualifying, tx.Kind, tx.ID, tx.Status)
	}

	existing, err := uc.txRepo.CreditKeys(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("credit keys of %s: %w", tx.ID, err)
	}
	if len(existing) > 0 {
		uc.recordDistribution("noop")
		return nil, nil
	}

	upline, err := uc.recipients(ctx, tx.MemberID)
	if err != nil {
		uc.recordDistribution("failed")
		return nil, err
	}
	amount := tx.Amount.Abs()
	s := uc.splitAmount(amount, tx.Currency, upline)

	entries := make([]*domain.Transaction, 0, len(s.credits)+1)
	if tx.Kind == domain.KindDeposit {
		// The invested deposit leaves the payer's wallet and funds the credits.
		entries = append(entries, &domain.Transaction{
			MemberID:            tx.MemberID,
			Currency:            tx.Currency,
			Amount:              amount.Neg(),
			Kind:                domain.KindPurchase,
			Qualifying:          false,
			OriginTransactionID: tx.ID,
			RuleID:              domain.RuleFunding,
			Description:         fmt.Sprintf("investment of deposit %s", tx.Reference),
		})
	}
	for _, c := range s.credits {
		entries = append(entries, &domain.Transaction{
			MemberID:            c.BeneficiaryID,
			Currency:            c.Currency,
			Amount:              c.Amount,
			Kind:                domain.KindCommissionCredit,
			OriginTransactionID: tx.ID,
			RuleID:              c.RuleID,
			CounterpartyID:      tx.MemberID,
			Description:         fmt.Sprintf("%s commission, tier %d", c.RuleID, c.Tier),
		})
	}

	posted, err := uc.ledger.PostBatch(ctx, entries)
	if err != nil {
		uc.recordDistribution("failed")
		slog.Error("failed to post commission credits", "transaction_id", tx.ID, "error", err.Error())
		return nil, fmt.Errorf("distribute %s: %w", tx.ID, err)
	}

	credits := make([]domain.CommissionCredit, 0, len(s.credits))
	offset := len(posted) - len(s.credits)
	for i, c := range s.credits {
		c.TransactionID = posted[offset+i].ID
		c.OriginTransactionID = tx.ID
		credits = append(credits, c)
		if uc.Metrics != nil {
			uc.Metrics.RecordCommissionCredit(c.RuleID, c.Currency, c.Amount)
		}
	}

	partial := len(s.redirects) > 0
	if partial {
		uc.logRedirects(ctx, tx, s)
		uc.recordDistribution("partial")
	} else {
		uc.recordDistribution("complete")
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordOperationDuration("distribute", time.Since(start).Seconds())
	}
	slog.Info("commission distributed",
		"transaction_id", tx.ID,
		"payer_id", tx.MemberID,
		"amount", amount.String(),
		"currency", tx.Currency,
		"credits", len(credits),
		"partial", partial,
	)
	uc.publishDistribution(tx, credits, partial)

	if uc.career != nil {
		if _, err := uc.career.ReevaluateChain(ctx, tx.MemberID, uc.cfg.MaxDepth); err != nil {
			slog.Error("career reevaluation after distribution failed", "transaction_id", tx.ID, "error", err.Error())
		}
	}

	if partial {
		return credits, fmt.Errorf("%w: %s redirected %s %s", domain.ErrDistributionPartialFailure,
			tx.ID, s.redirected().String(), tx.Currency)
	}
	return credits, nil
}

// recipients resolves the payer's upline with the level each member holds
// right now.
func (uc *DefaultCommissionUsecase) recipients(ctx context.Context, payerID string) ([]recipient, error) {
	upline, err := uc.network.Upline(ctx, payerID, uc.cfg.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("upline of %s: %w", payerID, err)
	}
	out := make([]recipient, 0, len(upline))
	for _, m := range upline {
		r := recipient{member: m}
		if m.Status != domain.MemberUnknown && uc.career != nil {
			level, err := uc.career.Level(ctx, m.ID)
			if err != nil {
				return nil, fmt.Errorf("level of %s: %w", m.ID, err)
			}
			r.level = level
		} else if uc.career != nil {
			r.level = uc.career.Evaluator().Table().Entry()
		}
		out = append(out, r)
	}
	return out, nil
}

func (uc *DefaultCommissionUsecase) logRedirects(ctx context.Context, tx *domain.Transaction, s *split) {
	for _, r := range s.redirects {
		slog.Warn("commission share redirected to system fund",
			"transaction_id", tx.ID,
			"tier", r.tier,
			"member_id", r.memberID,
			"reason", r.reason,
			"amount", r.amount.String(),
		)
		if uc.Metrics != nil {
			uc.Metrics.RecordRedirected(tx.Currency, r.amount)
		}
		if uc.distLog == nil {
			continue
		}
		entry := domain.DistributionLog{
			OriginTransactionID: tx.ID,
			MemberID:            r.memberID,
			Reason:              fmt.Sprintf("tier %d: %s", r.tier, r.reason),
			RedirectedAmount:    r.amount,
			Currency:            tx.Currency,
			CreatedAt:           time.Now().UTC(),
		}
		if err := uc.distLog.LogPartialFailure(ctx, entry); err != nil {
			slog.Error("failed to store distribution log", "transaction_id", tx.ID, "error", err.Error())
		}
	}
}

func (uc *DefaultCommissionUsecase) publishDistribution(tx *domain.Transaction, credits []domain.CommissionCredit, partial bool) {
	if uc.publisher == nil {
		return
	}
	event := domain.CommissionEvent{
		OriginTransactionID: tx.ID,
		PayerID:             tx.MemberID,
		Currency:            tx.Currency,
		Amount:              tx.Amount.Abs(),
		Credits:             credits,
		Partial:             partial,
		OccurredAt:          time.Now().UTC(),
	}
	go func() {
		if err := uc.publisher.PublishCommission(context.Background(), event); err != nil {
			slog.Error("failed to publish commission event", "transaction_id", event.OriginTransactionID, "error", err.Error())
		}
	}()
}

func (uc *DefaultCommissionUsecase) recordDistribution(result string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordDistribution(result)
	}
}

// HandleApproved is registered as a ledger settlement hook. Failures are
// logged for reconciliation and never reach the paying member.
func (uc *DefaultCommissionUsecase) HandleApproved(ctx context.Context, tx *domain.Transaction) {
	if !tx.IsQualifying() {
		return
	}
	_, err := uc.Distribute(ctx, tx.ID)
	switch {
	case err == nil, errors.Is(err, domain.ErrDistributionPartialFailure):
	default:
		slog.Error("commission distribution failed, left for reconciliation",
			"transaction_id", tx.ID,
			"member_id", tx.MemberID,
			"error", err.Error(),
		)
	}
}
