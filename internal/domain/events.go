package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionEvent struct {
	TransactionID string            `json:"transaction_id"`
	Reference     string            `json:"reference"`
	MemberID      string            `json:"member_id"`
	Kind          TransactionKind   `json:"kind"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

type CommissionEvent struct {
	OriginTransactionID string             `json:"origin_transaction_id"`
	PayerID             string             `json:"payer_id"`
	Currency            string             `json:"currency"`
	Amount              decimal.Decimal    `json:"amount"`
	Credits             []CommissionCredit `json:"credits"`
	Partial             bool               `json:"partial"`
	OccurredAt          time.Time          `json:"occurred_at"`
}

type PromotionEvent struct {
	MemberID   string    `json:"member_id"`
	FromRank   int       `json:"from_rank"`
	ToRank     int       `json:"to_rank"`
	LevelName  string    `json:"level_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MemberRegisteredEvent is consumed from the member directory stream.
type MemberRegisteredEvent struct {
	MemberID  string `json:"member_id"`
	SponsorID string `json:"sponsor_id"`
	Side      string `json:"side,omitempty"`
}

type EventPublisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
	PublishCommission(ctx context.Context, event CommissionEvent) error
	PublishPromotion(ctx context.Context, event PromotionEvent) error
}
