package response

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	MemberID  string          `json:"memberId"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Frozen    decimal.Decimal `json:"frozen"`
}

type LegsResponse struct {
	MemberID   string  `json:"memberId"`
	Left       int64   `json:"left"`
	Right      int64   `json:"right"`
	Ratio      float64 `json:"ratio"`
	IsBalanced bool    `json:"isBalanced"`
}

type RecommendationResponse struct {
	MemberID string `json:"memberId"`
	Side     string `json:"side"`
}

type CareerLevel struct {
	Rank           int             `json:"rank"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	PassiveRate    decimal.Decimal `json:"passiveRate"`
}

type CareerResponse struct {
	MemberID             string          `json:"memberId"`
	Level                CareerLevel     `json:"level"`
	CumulativeInvestment decimal.Decimal `json:"cumulativeInvestment"`
	DirectReferrals      int             `json:"directReferrals"`
	MaxDownlineRank      int             `json:"maxDownlineRank"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
