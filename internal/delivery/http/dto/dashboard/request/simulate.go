package request

import "github.com/shopspring/decimal"

type SimulateRequest struct {
	Amount               decimal.Decimal `json:"amount"`
	CumulativeInvestment decimal.Decimal `json:"cumulativeInvestment"`
	DirectReferrals      int             `json:"directReferrals"`
	MaxDownlineRank      int             `json:"maxDownlineRank"`
	UplineRanks          []int           `json:"uplineRanks"`
	InactiveTiers        []int           `json:"inactiveTiers,omitempty"`
}
