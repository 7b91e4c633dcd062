package walletdto

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PostInput carries a positive amount; the ledger applies the sign of the kind.
type PostInput struct {
	MemberID    string
	Currency    string
	Amount      decimal.Decimal
	Kind        domain.TransactionKind
	Qualifying  bool
	IBAN        string
	Description string
}

type TransferInput struct {
	FromID      string
	ToID        string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

type ListTransactionsInput struct {
	MemberID string
	Status   domain.TransactionStatus
	Kind     domain.TransactionKind
	Currency string
	Page     int64
	Limit    int64
}
