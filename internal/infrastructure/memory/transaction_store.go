// Package memory holds in-process implementations of the domain
// repositories. They back the "memory" storage driver and the tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInjected is returned by a store configured to fail.
var ErrInjected = errors.New("injected failure")

type TransactionStore struct {
	mu         sync.RWMutex
	txs        []*domain.Transaction
	byID       map[string]*domain.Transaction
	references map[string]struct{}
	creditKeys map[domain.CreditKey]struct{}

	// FailAfter, when positive, makes AppendBatch fail after staging that
	// many entries. Nothing from the failed batch becomes visible.
	FailAfter int
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		byID:       make(map[string]*domain.Transaction),
		references: make(map[string]struct{}),
		creditKeys: make(map[domain.CreditKey]struct{}),
	}
}

func cloneTx(tx *domain.Transaction) *domain.Transaction {
	c := *tx
	if tx.ProcessedAt != nil {
		at := *tx.ProcessedAt
		c.ProcessedAt = &at
	}
	return &c
}

func creditKey(tx *domain.Transaction) (domain.CreditKey, bool) {
	if tx.OriginTransactionID == "" || tx.RuleID == "" {
		return domain.CreditKey{}, false
	}
	return domain.CreditKey{
		OriginTransactionID: tx.OriginTransactionID,
		MemberID:            tx.MemberID,
		RuleID:              tx.RuleID,
	}, true
}

func (s *TransactionStore) Append(ctx context.Context, tx *domain.Transaction) error {
	return s.AppendBatch(ctx, []*domain.Transaction{tx})
}

func (s *TransactionStore) AppendBatch(ctx context.Context, txs []*domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make([]*domain.Transaction, 0, len(txs))
	stagedKeys := make(map[domain.CreditKey]struct{})
	stagedRefs := make(map[string]struct{})
	for i, tx := range txs {
		if s.FailAfter > 0 && i >= s.FailAfter {
			return fmt.Errorf("append batch at entry %d: %w", i, ErrInjected)
		}
		if _, exists := s.byID[tx.ID]; exists {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidTransaction, tx.ID)
		}
		if tx.Reference != "" {
			_, stored := s.references[tx.Reference]
			_, dup := stagedRefs[tx.Reference]
			if stored || dup {
				return fmt.Errorf("%w: duplicate reference %s", domain.ErrInvalidTransaction, tx.Reference)
			}
			stagedRefs[tx.Reference] = struct{}{}
		}
		if key, ok := creditKey(tx); ok {
			_, stored := s.creditKeys[key]
			_, dup := stagedKeys[key]
			if stored || dup {
				return fmt.Errorf("%w: duplicate commission key %+v", domain.ErrInvalidTransaction, key)
			}
			stagedKeys[key] = struct{}{}
		}
		staged = append(staged, cloneTx(tx))
	}

	for _, tx := range staged {
		s.txs = append(s.txs, tx)
		s.byID[tx.ID] = tx
	}
	for ref := range stagedRefs {
		s.references[ref] = struct{}{}
	}
	for key := range stagedKeys {
		s.creditKeys[key] = struct{}{}
	}
	return nil
}

func (s *TransactionStore) UpdateStatus(ctx context.Context, id string, from, to domain.TransactionStatus, processedAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if tx.Status != from {
		return fmt.Errorf("%w: %s is %s", domain.ErrInvalidStateTransition, id, tx.Status)
	}
	tx.Status = to
	at := processedAt
	tx.ProcessedAt = &at
	tx.RejectReason = reason
	return nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTx(tx), nil
}

func (s *TransactionStore) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Transaction
	for i := len(s.txs) - 1; i >= 0; i-- {
		tx := s.txs[i]
		if filter.MemberID != "" && tx.MemberID != filter.MemberID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if filter.Currency != "" && tx.Currency != filter.Currency {
			continue
		}
		matched = append(matched, tx)
	}

	total := int64(len(matched))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start >= total {
			return []*domain.Transaction{}, total, nil
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	out := make([]*domain.Transaction, len(matched))
	for i, tx := range matched {
		out[i] = cloneTx(tx)
	}
	return out, total, nil
}

func (s *TransactionStore) Sums(ctx context.Context, memberID, currency string) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settled, frozen := decimal.Zero, decimal.Zero
	for _, tx := range s.txs {
		if tx.MemberID != memberID || tx.Currency != currency {
			continue
		}
		if tx.Settled() {
			settled = settled.Add(tx.Amount)
		}
		if tx.Kind == domain.KindWithdrawal && tx.Status == domain.StatusPending {
			frozen = frozen.Add(tx.Amount.Abs())
		}
		if s.awaitingFunding(tx) {
			frozen = frozen.Add(tx.Amount)
		}
	}
	return settled, frozen, nil
}

// awaitingFunding reports an approved investment deposit whose funding leg
// is not posted yet. Callers hold s.mu.
func (s *TransactionStore) awaitingFunding(tx *domain.Transaction) bool {
	if tx.Kind != domain.KindDeposit || !tx.IsQualifying() {
		return false
	}
	_, funded := s.creditKeys[domain.CreditKey{
		OriginTransactionID: tx.ID,
		MemberID:            tx.MemberID,
		RuleID:              domain.RuleFunding,
	}]
	return !funded
}

func (s *TransactionStore) InvestmentByCurrency(ctx context.Context, memberID string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]decimal.Decimal)
	for _, tx := range s.txs {
		if tx.MemberID != memberID || tx.Kind != domain.KindPurchase || !tx.Settled() {
			continue
		}
		out[tx.Currency] = out[tx.Currency].Add(tx.Amount.Abs())
	}
	return out, nil
}

func (s *TransactionStore) CreditKeys(ctx context.Context, originID string) ([]domain.CreditKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []domain.CreditKey
	for key := range s.creditKeys {
		if key.OriginTransactionID == originID {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *TransactionStore) UndistributedQualifying(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	distributed := make(map[string]struct{})
	for key := range s.creditKeys {
		distributed[key.OriginTransactionID] = struct{}{}
	}

	var out []*domain.Transaction
	for _, tx := range s.txs {
		if !tx.IsQualifying() {
			continue
		}
		if _, done := distributed[tx.ID]; done {
			continue
		}
		out = append(out, cloneTx(tx))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *TransactionStore) SettledTotals(ctx context.Context, currency string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]decimal.Decimal)
	for _, tx := range s.txs {
		if tx.Currency != currency || !tx.Settled() {
			continue
		}
		out[tx.MemberID] = out[tx.MemberID].Add(tx.Amount)
	}
	return out, nil
}

func (s *TransactionStore) ApprovedSum(ctx context.Context, kind domain.TransactionKind, currency string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, tx := range s.txs {
		if tx.Kind == kind && tx.Currency == currency && tx.Status == domain.StatusApproved {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}
