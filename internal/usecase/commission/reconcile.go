package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Reconcile distributes qualifying transactions that have no credits yet,
// which heals runs interrupted before their batch was written. It returns
// the number of transactions distributed.
func (uc *DefaultCommissionUsecase) Reconcile(ctx context.Context, limit int) (int, error) {
	pending, err := uc.txRepo.UndistributedQualifying(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("undistributed transactions: %w", err)
	}

	done := 0
	for _, tx := range pending {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		_, err := uc.Distribute(ctx, tx.ID)
		if err != nil && !errors.Is(err, domain.ErrDistributionPartialFailure) {
			slog.Error("reconciliation failed", "transaction_id", tx.ID, "error", err.Error())
			continue
		}
		done++
	}
	if done > 0 {
		slog.Info("reconciliation finished", "distributed", done, "pending", len(pending))
	}
	return done, nil
}

// PayoutPassivePool splits the pool balance of one currency across active
// members, weighted by the passive rate of their level. Residue below the
// precision stays in the pool. Payouts of one currency run one at a time so
// the pool balance read here is the one the batch spends.
func (uc *DefaultCommissionUsecase) PayoutPassivePool(ctx context.Context, currency string) ([]domain.CommissionCredit, error) {
	if uc.career == nil {
		return nil, fmt.Errorf("passive payout needs career levels")
	}
	unlock := uc.locks.Lock(domain.PassivePoolAccount + ":" + currency)
	defer unlock()
	pool, _, err := uc.txRepo.Sums(ctx, domain.PassivePoolAccount, currency)
	if err != nil {
		return nil, fmt.Errorf("passive pool balance: %w", err)
	}
	if !pool.IsPositive() {
		return nil, nil
	}

	type weighted struct {
		memberID string
		weight   decimal.Decimal
	}
	var members []weighted
	total := decimal.Zero
	for _, m := range uc.network.ActiveMembers(ctx) {
		level, err := uc.career.Level(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if !level.PassiveRate.IsPositive() {
			continue
		}
		members = append(members, weighted{memberID: m.ID, weight: level.PassiveRate})
		total = total.Add(level.PassiveRate)
	}
	if total.IsZero() {
		return nil, nil
	}

	origin := fmt.Sprintf("payout:%s:%d", currency, time.Now().UnixNano())
	paid := decimal.Zero
	var credits []domain.CommissionCredit
	var entries []*domain.Transaction
	for _, m := range members {
		share := pool.Mul(m.weight).Div(total).Truncate(uc.cfg.Precision)
		if !share.IsPositive() || share.LessThan(uc.cfg.MinPayableUnit) {
			continue
		}
		paid = paid.Add(share)
		credits = append(credits, domain.CommissionCredit{
			OriginTransactionID: origin,
			BeneficiaryID:       m.memberID,
			RuleID:              domain.RulePayout,
			Amount:              share,
			Currency:            currency,
		})
		entries = append(entries, &domain.Transaction{
			MemberID:            m.memberID,
			Currency:            currency,
			Amount:              share,
			Kind:                domain.KindTransfer,
			OriginTransactionID: origin,
			RuleID:              domain.RulePayout,
			CounterpartyID:      domain.PassivePoolAccount,
			Description:         "passive income payout",
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}
	entries = append(entries, &domain.Transaction{
		MemberID:            domain.PassivePoolAccount,
		Currency:            currency,
		Amount:              paid.Neg(),
		Kind:                domain.KindTransfer,
		OriginTransactionID: origin,
		RuleID:              domain.RulePayout,
		Description:         "passive income payout",
	})

	posted, err := uc.ledger.PostBatch(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("passive payout: %w", err)
	}
	for i := range credits {
		credits[i].TransactionID = posted[i].ID
		if uc.Metrics != nil {
			uc.Metrics.RecordCommissionCredit(domain.RulePayout, currency, credits[i].Amount)
		}
	}
	slog.Info("passive pool paid out", "currency", currency, "members", len(credits), "amount", paid.String())
	return credits, nil
}
