package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/google/uuid"
)

// Transfer moves money between two member accounts. Both legs are written
// in one batch while both account locks are held, so either both exist or
// neither does. Each leg has its own reference; CounterpartyID links them.
func (uc *DefaultWalletUsecase) Transfer(ctx context.Context, input *walletdto.TransferInput) (*walletdto.TransferOutput, error) {
	if input.FromID == "" || input.ToID == "" || input.FromID == input.ToID {
		return nil, fmt.Errorf("%w: transfer needs two distinct accounts", domain.ErrInvalidTransaction)
	}
	if domain.IsSystemAccount(input.FromID) || domain.IsSystemAccount(input.ToID) {
		return nil, fmt.Errorf("%w: system accounts cannot transfer", domain.ErrInvalidTransaction)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", domain.ErrInvalidAmount, input.Amount.String())
	}
	currency, err := uc.checkCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	debit := &domain.Transaction{
		ID:             uuid.New().String(),
		Reference:      uc.reference(),
		MemberID:       input.FromID,
		Currency:       currency,
		Amount:         input.Amount.Neg(),
		Kind:           domain.KindTransfer,
		Status:         domain.StatusCompleted,
		CounterpartyID: input.ToID,
		Description:    input.Description,
		CreatedAt:      now,
		ProcessedAt:    &now,
	}
	credit := &domain.Transaction{
		ID:             uuid.New().String(),
		Reference:      uc.reference(),
		MemberID:       input.ToID,
		Currency:       currency,
		Amount:         input.Amount,
		Kind:           domain.KindTransfer,
		Status:         domain.StatusCompleted,
		CounterpartyID: input.FromID,
		Description:    input.Description,
		CreatedAt:      now,
		ProcessedAt:    &now,
	}

	unlock := uc.locks.Lock(input.FromID, input.ToID)
	defer unlock()

	available, err := uc.available(ctx, input.FromID, currency)
	if err != nil {
		return nil, err
	}
	if available.LessThan(input.Amount) {
		uc.recordTransfer(currency, "insufficient_funds")
		return nil, fmt.Errorf("%w: available %s %s, requested %s", domain.ErrInsufficientFunds,
			available.String(), currency, input.Amount.String())
	}
	if err := uc.txRepo.AppendBatch(ctx, []*domain.Transaction{debit, credit}); err != nil {
		uc.recordTransfer(currency, "failed")
		slog.Error("failed to append transfer", "from", input.FromID, "to", input.ToID, "error", err.Error())
		return nil, fmt.Errorf("append transfer: %w", err)
	}

	uc.recordTransfer(currency, "ok")
	slog.Info("transfer completed",
		"debit_reference", debit.Reference,
		"credit_reference", credit.Reference,
		"from", input.FromID,
		"to", input.ToID,
		"amount", input.Amount.String(),
		"currency", currency,
	)
	uc.publish(debit)
	uc.publish(credit)
	return &walletdto.TransferOutput{Debit: debit, Credit: credit}, nil
}

func (uc *DefaultWalletUsecase) recordTransfer(currency, result string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordTransfer(currency, result)
	}
}
