package commissiondto

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

// SimulationInput describes a hypothetical qualifying payment. UplineRanks
// lists the career rank of each upline member, nearest first; zero means the
// entry level. InactiveTiers marks tiers (1-based) whose member is inactive.
type SimulationInput struct {
	Amount        decimal.Decimal
	PayerStats    domain.MemberStats
	UplineRanks   []int
	InactiveTiers []int
}
