package commission

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
	"github.com/shopspring/decimal"
)

type CommissionUsecase interface {
	Distribute(ctx context.Context, transactionID string) ([]domain.CommissionCredit, error)
	HandleApproved(ctx context.Context, tx *domain.Transaction)
	Simulate(input *commissiondto.SimulationInput) (*commissiondto.SimulationOutput, error)
	Reconcile(ctx context.Context, limit int) (int, error)
	PayoutPassivePool(ctx context.Context, currency string) ([]domain.CommissionCredit, error)
}

// Network is the part of the network tree the engine reads.
type Network interface {
	Upline(ctx context.Context, memberID string, maxDepth int) ([]domain.Member, error)
	ActiveMembers(ctx context.Context) []domain.Member
}

type Ledger interface {
	PostBatch(ctx context.Context, entries []*domain.Transaction) ([]*domain.Transaction, error)
}

type Config struct {
	MaxDepth       int
	Precision      int32
	MinPayableUnit decimal.Decimal
}

type DefaultCommissionUsecase struct {
	table     *domain.CommissionTable
	txRepo    domain.TransactionRepository
	network   Network
	career    career.CareerUsecase
	ledger    Ledger
	distLog   domain.DistributionLogger
	publisher domain.EventPublisher
	Metrics   *metrics.CompensationMetrics
	cfg       Config

	locks *originLocks
}

func NewDefaultCommissionUsecase(
	table *domain.CommissionTable,
	txRepo domain.TransactionRepository,
	network Network,
	careerUc career.CareerUsecase,
	ledger Ledger,
	distLog domain.DistributionLogger,
	publisher domain.EventPublisher,
	cfg Config,
	metrics *metrics.CompensationMetrics,
) *DefaultCommissionUsecase {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 7
	}
	return &DefaultCommissionUsecase{
		table:     table,
		txRepo:    txRepo,
		network:   network,
		career:    careerUc,
		ledger:    ledger,
		distLog:   distLog,
		publisher: publisher,
		Metrics:   metrics,
		cfg:       cfg,
		locks:     newOriginLocks(),
	}
}

// originLocks serializes runs that share a key: an origin transaction or a
// pool currency.
type originLocks struct {
	mu   sync.Mutex
	held map[string]*originLock
}

type originLock struct {
	mu   sync.Mutex
	refs int
}

func newOriginLocks() *originLocks {
	return &originLocks{held: make(map[string]*originLock)}
}

func (l *originLocks) Lock(id string) func() {
	l.mu.Lock()
	lock, ok := l.held[id]
	if !ok {
		lock = &originLock{}
		l.held[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
