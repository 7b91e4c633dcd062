package wallet

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/shopspring/decimal"
)

func (uc *DefaultWalletUsecase) Balance(ctx context.Context, memberID, currency string) (*domain.Balance, error) {
	c, err := uc.checkCurrency(currency)
	if err != nil {
		return nil, err
	}
	settled, frozen, err := uc.txRepo.Sums(ctx, memberID, c)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", memberID, err)
	}
	return &domain.Balance{
		MemberID:  memberID,
		Currency:  c,
		Balance:   settled,
		Available: settled.Sub(frozen),
		Frozen:    frozen,
	}, nil
}

func (uc *DefaultWalletUsecase) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, transactionID)
}

func (uc *DefaultWalletUsecase) ListTransactions(ctx context.Context, input *walletdto.ListTransactionsInput) (*walletdto.ListTransactionsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 50
	}
	filter := domain.TransactionFilter{
		MemberID: input.MemberID,
		Status:   input.Status,
		Kind:     input.Kind,
		Page:     input.Page,
		Limit:    input.Limit,
	}
	if input.Currency != "" {
		filter.Currency = normalizeCurrency(input.Currency)
	}

	txs, total, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := total / input.Limit
	if total%input.Limit > 0 {
		totalPages++
	}
	return &walletdto.ListTransactionsOutput{
		Transactions: txs,
		Pagination: walletdto.Pagination{
			CurrentPage:  input.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: input.Limit,
		},
	}, nil
}

// Portfolio values every configured currency balance of the member in the
// quote currency using the rate feed.
func (uc *DefaultWalletUsecase) Portfolio(ctx context.Context, memberID, quote string) (*walletdto.PortfolioOutput, error) {
	q := normalizeCurrency(quote)
	out := &walletdto.PortfolioOutput{MemberID: memberID, Quote: q, Total: decimal.Zero}
	for _, currency := range uc.ordered {
		settled, _, err := uc.txRepo.Sums(ctx, memberID, currency)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", memberID, err)
		}
		if settled.IsZero() {
			continue
		}
		rate := decimal.NewFromInt(1)
		if currency != q {
			if uc.rates == nil {
				return nil, fmt.Errorf("%w: no rate feed for %s/%s", domain.ErrRateUnavailable, currency, q)
			}
			rate, err = uc.rates.GetRate(ctx, currency, q)
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %v", domain.ErrRateUnavailable, currency, q, err)
			}
		}
		value := settled.Mul(rate)
		out.Holdings = append(out.Holdings, walletdto.Holding{
			Currency: currency,
			Balance:  settled,
			Rate:     rate,
			Value:    value,
		})
		out.Total = out.Total.Add(value)
	}
	return out, nil
}

// Conservation checks that the accounts hold exactly what entered minus
// what left the platform, net of purchases not yet distributed.
func (uc *DefaultWalletUsecase) Conservation(ctx context.Context, currency string) (*walletdto.ConservationReport, error) {
	c, err := uc.checkCurrency(currency)
	if err != nil {
		return nil, err
	}
	totals, err := uc.txRepo.SettledTotals(ctx, c)
	if err != nil {
		return nil, err
	}
	deposits, err := uc.txRepo.ApprovedSum(ctx, domain.KindDeposit, c)
	if err != nil {
		return nil, err
	}
	withdrawals, err := uc.txRepo.ApprovedSum(ctx, domain.KindWithdrawal, c)
	if err != nil {
		return nil, err
	}
	pending, err := uc.txRepo.UndistributedQualifying(ctx, 0)
	if err != nil {
		return nil, err
	}

	report := &walletdto.ConservationReport{
		Currency:            c,
		AccountsTotal:       decimal.Zero,
		SystemFund:          totals[domain.SystemFundAccount],
		PassivePool:         totals[domain.PassivePoolAccount],
		ApprovedDeposits:    deposits,
		ApprovedWithdrawals: withdrawals,
		InFlight:            decimal.Zero,
	}
	for _, sum := range totals {
		report.AccountsTotal = report.AccountsTotal.Add(sum)
	}
	for _, tx := range pending {
		if tx.Kind == domain.KindPurchase && tx.Currency == c {
			report.InFlight = report.InFlight.Add(tx.Amount.Abs())
		}
	}
	report.Balanced = report.AccountsTotal.Add(report.InFlight).Equal(deposits.Add(withdrawals))
	return report, nil
}
