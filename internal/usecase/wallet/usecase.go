package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

type WalletUsecase interface {
	Post(ctx context.Context, input *walletdto.PostInput) (*domain.Transaction, error)
	PostBatch(ctx context.Context, entries []*domain.Transaction) ([]*domain.Transaction, error)
	Approve(ctx context.Context, transactionID string) (*domain.Transaction, error)
	Reject(ctx context.Context, transactionID, reason string) (*domain.Transaction, error)
	Transfer(ctx context.Context, input *walletdto.TransferInput) (*walletdto.TransferOutput, error)

	Balance(ctx context.Context, memberID, currency string) (*domain.Balance, error)
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input *walletdto.ListTransactionsInput) (*walletdto.ListTransactionsOutput, error)
	Portfolio(ctx context.Context, memberID, quote string) (*walletdto.PortfolioOutput, error)
	Conservation(ctx context.Context, currency string) (*walletdto.ConservationReport, error)

	RegisterSettlementHook(hook SettlementHook)
	Currencies() []string
}

// SettlementHook runs after a transaction becomes settled through Approve or
// an immediately completed Post, outside of any account lock.
type SettlementHook func(ctx context.Context, tx *domain.Transaction)

type Config struct {
	Currencies []string
}

type DefaultWalletUsecase struct {
	txRepo     domain.TransactionRepository
	rates      domain.ExchangeRateProvider
	publisher  domain.EventPublisher
	Metrics    *metrics.CompensationMetrics
	currencies map[string]struct{}
	ordered    []string
	locks      *accountLocks
	reference  func() string

	hooksMu sync.RWMutex
	hooks   []SettlementHook
}

func NewDefaultWalletUsecase(
	txRepo domain.TransactionRepository,
	rates domain.ExchangeRateProvider,
	publisher domain.EventPublisher,
	cfg Config,
	metrics *metrics.CompensationMetrics,
) (*DefaultWalletUsecase, error) {
	if len(cfg.Currencies) == 0 {
		return nil, fmt.Errorf("wallet: at least one currency must be configured")
	}
	reference, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("wallet: reference generator: %w", err)
	}
	currencies := make(map[string]struct{}, len(cfg.Currencies))
	ordered := make([]string, 0, len(cfg.Currencies))
	for _, c := range cfg.Currencies {
		c = normalizeCurrency(c)
		if _, dup := currencies[c]; dup {
			continue
		}
		currencies[c] = struct{}{}
		ordered = append(ordered, c)
	}
	return &DefaultWalletUsecase{
		txRepo:     txRepo,
		rates:      rates,
		publisher:  publisher,
		Metrics:    metrics,
		currencies: currencies,
		ordered:    ordered,
		locks:      newAccountLocks(),
		reference:  reference,
	}, nil
}

func (uc *DefaultWalletUsecase) RegisterSettlementHook(hook SettlementHook) {
	uc.hooksMu.Lock()
	defer uc.hooksMu.Unlock()
	uc.hooks = append(uc.hooks, hook)
}

func (uc *DefaultWalletUsecase) Currencies() []string {
	return append([]string(nil), uc.ordered...)
}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func (uc *DefaultWalletUsecase) checkCurrency(currency string) (string, error) {
	c := normalizeCurrency(currency)
	if _, ok := uc.currencies[c]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}
	return c, nil
}

// available must be called with the member's account lock held.
func (uc *DefaultWalletUsecase) available(ctx context.Context, memberID, currency string) (decimal.Decimal, error) {
	settled, frozen, err := uc.txRepo.Sums(ctx, memberID, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance of %s: %w", memberID, err)
	}
	return settled.Sub(frozen), nil
}

func (uc *DefaultWalletUsecase) runHooks(ctx context.Context, tx *domain.Transaction) {
	uc.hooksMu.RLock()
	hooks := append([]SettlementHook(nil), uc.hooks...)
	uc.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, tx)
	}
}

func (uc *DefaultWalletUsecase) publish(tx *domain.Transaction) {
	if uc.publisher == nil {
		return
	}
	event := domain.TransactionEvent{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		MemberID:      tx.MemberID,
		Kind:          tx.Kind,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		OccurredAt:    tx.CreatedAt,
	}
	if tx.ProcessedAt != nil {
		event.OccurredAt = *tx.ProcessedAt
	}
	go func() {
		if err := uc.publisher.PublishTransaction(context.Background(), event); err != nil {
			slog.Error("failed to publish transaction event", "transaction_id", event.TransactionID, "error", err.Error())
		}
	}()
}
