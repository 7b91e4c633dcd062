package compensationpb

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                  string          `json:"id"`
	Reference           string          `json:"reference"`
	MemberID            string          `json:"member_id"`
	Currency            string          `json:"currency"`
	Amount              decimal.Decimal `json:"amount"`
	Kind                string          `json:"kind"`
	Status              string          `json:"status"`
	Qualifying          bool            `json:"qualifying,omitempty"`
	IBAN                string          `json:"iban,omitempty"`
	Description         string          `json:"description,omitempty"`
	OriginTransactionID string          `json:"origin_transaction_id,omitempty"`
	RuleID              string          `json:"rule_id,omitempty"`
	CounterpartyID      string          `json:"counterparty_id,omitempty"`
	RejectReason        string          `json:"reject_reason,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	ProcessedAt         *time.Time      `json:"processed_at,omitempty"`
}

type Pagination struct {
	CurrentPage  int64 `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int64 `json:"items_per_page"`
}

type Member struct {
	ID        string    `json:"id"`
	SponsorID string    `json:"sponsor_id,omitempty"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
}

type Node struct {
	Member      *Member  `json:"member"`
	ParentID    string   `json:"parent_id,omitempty"`
	Position    int      `json:"position"`
	Children    []string `json:"children"`
	LegSizes    []int64  `json:"leg_sizes"`
	SubtreeSize int64    `json:"subtree_size"`
}

type Credit struct {
	TransactionID       string          `json:"transaction_id,omitempty"`
	OriginTransactionID string          `json:"origin_transaction_id"`
	BeneficiaryID       string          `json:"beneficiary_id"`
	RuleID              string          `json:"rule_id"`
	Tier                int             `json:"tier"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Redirected          bool            `json:"redirected,omitempty"`
}

type CareerLevel struct {
	Rank                 int             `json:"rank"`
	Name                 string          `json:"name"`
	MinInvestment        decimal.Decimal `json:"min_investment"`
	MinDirectReferrals   int             `json:"min_direct_referrals"`
	CommissionRate       decimal.Decimal `json:"commission_rate"`
	PassiveRate          decimal.Decimal `json:"passive_rate"`
	FlatBonus            decimal.Decimal `json:"flat_bonus"`
	RequiredDownlineRank int             `json:"required_downline_rank"`
}

type MemberStats struct {
	CumulativeInvestment decimal.Decimal `json:"cumulative_investment"`
	DirectReferrals      int             `json:"direct_referrals"`
	MaxDownlineRank      int             `json:"max_downline_rank"`
}
