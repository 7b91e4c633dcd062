package career

import "github.com/LavaJover/shvark-compensation-service/internal/domain"

// Evaluator maps member stats to a career level. It holds no state besides
// the immutable level table and is safe for concurrent use.
type Evaluator struct {
	table *domain.CareerTable
}

func NewEvaluator(table *domain.CareerTable) *Evaluator {
	return &Evaluator{table: table}
}

func (e *Evaluator) Table() *domain.CareerTable {
	return e.table
}

// Evaluate returns the highest level whose requirements the stats meet.
func (e *Evaluator) Evaluate(stats domain.MemberStats) domain.CareerLevel {
	levels := e.table.Levels()
	for i := len(levels) - 1; i > 0; i-- {
		if levels[i].Satisfies(stats) {
			return levels[i]
		}
	}
	return levels[0]
}
