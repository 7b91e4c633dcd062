package commissiondto

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

type SimulatedShare struct {
	Tier       int             `json:"tier"`
	RuleID     string          `json:"rule_id"`
	Rank       int             `json:"rank"`
	Level      string          `json:"level"`
	Amount     decimal.Decimal `json:"amount"`
	Redirected bool            `json:"redirected"`
}

type SimulationOutput struct {
	Amount           decimal.Decimal    `json:"amount"`
	PayerLevelBefore domain.CareerLevel `json:"payer_level_before"`
	PayerLevelAfter  domain.CareerLevel `json:"payer_level_after"`
	Shares           []SimulatedShare   `json:"shares"`
	PassivePool      decimal.Decimal    `json:"passive_pool"`
	SystemFund       decimal.Decimal    `json:"system_fund"`
}
