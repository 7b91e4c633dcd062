package walletdto

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransferOutput struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

type Pagination struct {
	CurrentPage  int64 `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int64 `json:"items_per_page"`
}

type ListTransactionsOutput struct {
	Transactions []*domain.Transaction
	Pagination   Pagination
}

type Holding struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Rate     decimal.Decimal `json:"rate"`
	Value    decimal.Decimal `json:"value"`
}

type PortfolioOutput struct {
	MemberID string          `json:"member_id"`
	Quote    string          `json:"quote"`
	Total    decimal.Decimal `json:"total"`
	Holdings []Holding       `json:"holdings"`
}

// ConservationReport compares the sum of every account with the money that
// entered and left the platform. InFlight is the amount of qualifying
// purchases still waiting for distribution.
type ConservationReport struct {
	Currency            string          `json:"currency"`
	AccountsTotal       decimal.Decimal `json:"accounts_total"`
	SystemFund          decimal.Decimal `json:"system_fund"`
	PassivePool         decimal.Decimal `json:"passive_pool"`
	ApprovedDeposits    decimal.Decimal `json:"approved_deposits"`
	ApprovedWithdrawals decimal.Decimal `json:"approved_withdrawals"`
	InFlight            decimal.Decimal `json:"in_flight"`
	Balanced            bool            `json:"balanced"`
}
