package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

// Approve settles a pending deposit or withdrawal and runs the settlement
// hooks. A transaction leaves pending at most once.
func (uc *DefaultWalletUsecase) Approve(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := uc.resolve(ctx, transactionID, domain.StatusApproved, "")
	if err != nil {
		return nil, err
	}
	uc.runHooks(ctx, tx)
	return tx, nil
}

// Reject releases a pending transaction; a rejected withdrawal unfreezes
// its amount.
func (uc *DefaultWalletUsecase) Reject(ctx context.Context, transactionID, reason string) (*domain.Transaction, error) {
	return uc.resolve(ctx, transactionID, domain.StatusRejected, reason)
}

func (uc *DefaultWalletUsecase) resolve(ctx context.Context, transactionID string, to domain.TransactionStatus, reason string) (*domain.Transaction, error) {
	tx, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: transaction %s is %s", domain.ErrInvalidStateTransition, tx.ID, tx.Status)
	}

	unlock := uc.locks.Lock(tx.MemberID)
	now := time.Now().UTC()
	err = uc.txRepo.UpdateStatus(ctx, tx.ID, domain.StatusPending, to, now, reason)
	unlock()
	if err != nil {
		return nil, err
	}

	tx.Status = to
	tx.ProcessedAt = &now
	tx.RejectReason = reason
	slog.Info("transaction resolved",
		"transaction_id", tx.ID,
		"member_id", tx.MemberID,
		"kind", string(tx.Kind),
		"status", string(to),
	)
	if uc.Metrics != nil {
		uc.Metrics.RecordTransactionResolved(string(tx.Kind), string(to))
	}
	uc.publish(tx)
	return tx, nil
}
