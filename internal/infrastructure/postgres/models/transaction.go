package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionModel rows are never deleted; only status, processed_at and
// reject_reason change after insert.
type TransactionModel struct {
	ID                  string          `gorm:"primaryKey"`
	Reference           string          `gorm:"uniqueIndex;not null"`
	MemberID            string          `gorm:"index:idx_transactions_member_created,priority:1;uniqueIndex:idx_transactions_credit_key,priority:2;not null"`
	Currency            string          `gorm:"not null"`
	Amount              decimal.Decimal `gorm:"type:numeric(36,18);not null"`
	Kind                string          `gorm:"not null"`
	Status              string          `gorm:"index;not null"`
	Qualifying          bool
	IBAN                string
	Description         string
	OriginTransactionID *string `gorm:"uniqueIndex:idx_transactions_credit_key,priority:1"`
	RuleID              *string `gorm:"uniqueIndex:idx_transactions_credit_key,priority:3"`
	CounterpartyID      string
	RejectReason        string
	CreatedAt           time.Time `gorm:"index:idx_transactions_member_created,priority:2"`
	ProcessedAt         *time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}
