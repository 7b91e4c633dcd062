package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Post appends a member-initiated transaction. Deposits and withdrawals
// wait for approval; purchases complete at once. Withdrawals and purchases
// need enough available balance, checked under the member's lock.
func (uc *DefaultWalletUsecase) Post(ctx context.Context, input *walletdto.PostInput) (*domain.Transaction, error) {
	start := time.Now()
	if input.MemberID == "" || domain.IsSystemAccount(input.MemberID) {
		return nil, fmt.Errorf("%w: member account required", domain.ErrInvalidTransaction)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", domain.ErrInvalidAmount, input.Amount.String())
	}
	currency, err := uc.checkCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:          uuid.New().String(),
		Reference:   uc.reference(),
		MemberID:    input.MemberID,
		Currency:    currency,
		Kind:        input.Kind,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}
	debit := false
	switch input.Kind {
	case domain.KindDeposit:
		tx.Amount = input.Amount
		tx.Status = domain.StatusPending
		tx.Qualifying = input.Qualifying
	case domain.KindWithdrawal:
		if input.IBAN != "" {
			if err := domain.ValidateIBAN(input.IBAN); err != nil {
				return nil, err
			}
			tx.IBAN = domain.NormalizeIBAN(input.IBAN)
		}
		tx.Amount = input.Amount.Neg()
		tx.Status = domain.StatusPending
		debit = true
	case domain.KindPurchase:
		tx.Amount = input.Amount.Neg()
		tx.Status = domain.StatusCompleted
		tx.Qualifying = true
		processed := tx.CreatedAt
		tx.ProcessedAt = &processed
		debit = true
	case domain.KindTransfer:
		return nil, fmt.Errorf("%w: transfers are posted with Transfer", domain.ErrInvalidTransaction)
	default:
		return nil, fmt.Errorf("%w: kind %q cannot be posted directly", domain.ErrInvalidTransaction, input.Kind)
	}

	unlock := uc.locks.Lock(tx.MemberID)
	if debit {
		available, err := uc.available(ctx, tx.MemberID, currency)
		if err != nil {
			unlock()
			return nil, err
		}
		if available.LessThan(input.Amount) {
			unlock()
			return nil, fmt.Errorf("%w: available %s %s, requested %s", domain.ErrInsufficientFunds,
				available.String(), currency, input.Amount.String())
		}
	}
	err = uc.txRepo.Append(ctx, tx)
	unlock()
	if err != nil {
		slog.Error("failed to append transaction", "member_id", tx.MemberID, "kind", string(tx.Kind), "error", err.Error())
		if uc.Metrics != nil {
			uc.Metrics.RecordError("post", "repository")
		}
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	slog.Info("transaction posted",
		"transaction_id", tx.ID,
		"reference", tx.Reference,
		"member_id", tx.MemberID,
		"kind", string(tx.Kind),
		"amount", tx.Amount.String(),
		"currency", tx.Currency,
	)
	if uc.Metrics != nil {
		uc.Metrics.RecordTransactionPosted(string(tx.Kind), tx.Currency, tx.Amount)
		uc.Metrics.RecordOperationDuration("post", time.Since(start).Seconds())
	}
	uc.publish(tx)
	if tx.Settled() {
		uc.runHooks(ctx, tx)
	}
	return tx, nil
}

// PostBatch appends completed internal entries (commission credits, funding
// legs, bonuses, payouts) as one atomic unit. Every touched account is
// locked in sorted order; member accounts cannot be overdrawn while the
// system accounts can.
func (uc *DefaultWalletUsecase) PostBatch(ctx context.Context, entries []*domain.Transaction) ([]*domain.Transaction, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	posted := make([]*domain.Transaction, 0, len(entries))
	accounts := make([]string, 0, len(entries))
	debits := make(map[string]decimal.Decimal)
	var funding []*domain.Transaction

	for _, entry := range entries {
		if entry.MemberID == "" || entry.Amount.IsZero() {
			return nil, fmt.Errorf("%w: entry needs a member and a nonzero amount", domain.ErrInvalidAmount)
		}
		currency, err := uc.checkCurrency(entry.Currency)
		if err != nil {
			return nil, err
		}
		switch entry.Kind {
		case domain.KindCommissionCredit, domain.KindPurchase, domain.KindTransfer:
		default:
			return nil, fmt.Errorf("%w: kind %q cannot be posted in a batch", domain.ErrInvalidTransaction, entry.Kind)
		}

		tx := *entry
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if tx.Reference == "" {
			tx.Reference = uc.reference()
		}
		tx.Currency = currency
		tx.Status = domain.StatusCompleted
		tx.CreatedAt = now
		processed := now
		tx.ProcessedAt = &processed
		posted = append(posted, &tx)

		accounts = append(accounts, tx.MemberID)
		if tx.RuleID == domain.RuleFunding {
			// Spends its own reservation, checked below.
			funding = append(funding, &tx)
			continue
		}
		if tx.Amount.IsNegative() && !domain.IsSystemAccount(tx.MemberID) {
			key := tx.MemberID + "|" + currency
			debits[key] = debits[key].Add(tx.Amount.Neg())
		}
	}

	unlock := uc.locks.Lock(accounts...)
	defer unlock()

	for _, tx := range funding {
		if err := uc.checkFunding(ctx, tx); err != nil {
			return nil, err
		}
	}
	for key, amount := range debits {
		member, currency, _ := strings.Cut(key, "|")
		available, err := uc.available(ctx, member, currency)
		if err != nil {
			return nil, err
		}
		if available.LessThan(amount) {
			return nil, fmt.Errorf("%w: %s has %s %s available, batch debits %s", domain.ErrInsufficientFunds,
				member, available.String(), currency, amount.String())
		}
	}
	if err := uc.txRepo.AppendBatch(ctx, posted); err != nil {
		slog.Error("failed to append batch", "entries", len(posted), "error", err.Error())
		if uc.Metrics != nil {
			uc.Metrics.RecordError("post_batch", "repository")
		}
		return nil, fmt.Errorf("append batch: %w", err)
	}

	for _, tx := range posted {
		if uc.Metrics != nil {
			uc.Metrics.RecordTransactionPosted(string(tx.Kind), tx.Currency, tx.Amount)
		}
		uc.publish(tx)
	}
	return posted, nil
}

// checkFunding accepts a funding leg only for an approved investment deposit
// of the same member and amount, whose reservation the leg then consumes.
func (uc *DefaultWalletUsecase) checkFunding(ctx context.Context, leg *domain.Transaction) error {
	origin, err := uc.txRepo.GetByID(ctx, leg.OriginTransactionID)
	if err != nil {
		return fmt.Errorf("funding origin %s: %w", leg.OriginTransactionID, err)
	}
	if origin.Kind != domain.KindDeposit || !origin.IsQualifying() ||
		origin.MemberID != leg.MemberID || origin.Currency != leg.Currency ||
		!origin.Amount.Equal(leg.Amount.Neg()) {
		return fmt.Errorf("%w: funding leg does not match deposit %s", domain.ErrInvalidTransaction, origin.ID)
	}
	return nil
}
