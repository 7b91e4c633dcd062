package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit          TransactionKind = "DEPOSIT"
	KindWithdrawal       TransactionKind = "WITHDRAWAL"
	KindTransfer         TransactionKind = "TRANSFER"
	KindCommissionCredit TransactionKind = "COMMISSION_CREDIT"
	KindPurchase         TransactionKind = "PURCHASE"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusApproved  TransactionStatus = "APPROVED"
	StatusRejected  TransactionStatus = "REJECTED"
	StatusCompleted TransactionStatus = "COMPLETED"
)

// Ledger accounts that do not belong to members.
const (
	SystemFundAccount  = "system-fund"
	PassivePoolAccount = "passive-pool"
)

func IsSystemAccount(id string) bool {
	return id == SystemFundAccount || id == PassivePoolAccount
}

type Transaction struct {
	ID          string
	Reference   string
	MemberID    string
	Currency    string
	Amount      decimal.Decimal
	Kind        TransactionKind
	Status      TransactionStatus
	Qualifying  bool
	IBAN        string
	Description string

	// Commission idempotency key: (OriginTransactionID, MemberID, RuleID).
	OriginTransactionID string
	RuleID              string
	CounterpartyID      string

	RejectReason string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// Settled reports whether the amount counts toward the balance.
func (t *Transaction) Settled() bool {
	return t.Status == StatusApproved || t.Status == StatusCompleted
}

// IsQualifying reports whether the transaction can trigger a commission
// distribution in its current state.
func (t *Transaction) IsQualifying() bool {
	switch t.Kind {
	case KindDeposit:
		return t.Qualifying && t.Status == StatusApproved
	case KindPurchase:
		return t.Status == StatusCompleted && t.OriginTransactionID == ""
	default:
		return false
	}
}

type Balance struct {
	MemberID  string
	Currency  string
	Balance   decimal.Decimal
	Available decimal.Decimal
	Frozen    decimal.Decimal
}

type CreditKey struct {
	OriginTransactionID string
	MemberID            string
	RuleID              string
}

type TransactionFilter struct {
	MemberID string
	Status   TransactionStatus
	Kind     TransactionKind
	Currency string
	Page     int64
	Limit    int64
}

type TransactionRepository interface {
	Append(ctx context.Context, tx *Transaction) error
	// AppendBatch stores every transaction or none of them.
	AppendBatch(ctx context.Context, txs []*Transaction) error
	// UpdateStatus moves a transaction from one status to another only if it
	// is still in the expected status; otherwise ErrInvalidStateTransition.
	UpdateStatus(ctx context.Context, id string, from, to TransactionStatus, processedAt time.Time, reason string) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, int64, error)
	// Sums returns the settled sum and the frozen sum: pending withdrawals
	// plus approved investment deposits whose funding leg is not posted yet.
	Sums(ctx context.Context, memberID, currency string) (settled, frozen decimal.Decimal, err error)
	InvestmentByCurrency(ctx context.Context, memberID string) (map[string]decimal.Decimal, error)
	CreditKeys(ctx context.Context, originID string) ([]CreditKey, error)
	UndistributedQualifying(ctx context.Context, limit int) ([]*Transaction, error)
	// SettledTotals returns settled sums per account for one currency.
	SettledTotals(ctx context.Context, currency string) (map[string]decimal.Decimal, error)
	ApprovedSum(ctx context.Context, kind TransactionKind, currency string) (decimal.Decimal, error)
}
