package career

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
)

type CareerUsecase interface {
	Level(ctx context.Context, memberID string) (domain.CareerLevel, error)
	Stats(ctx context.Context, memberID string) (domain.MemberStats, error)
	Reevaluate(ctx context.Context, memberID string) (*domain.PromotionEvent, error)
	ReevaluateChain(ctx context.Context, memberID string, depth int) ([]domain.PromotionEvent, error)
	Evaluator() *Evaluator
}

// Network is the part of the network tree the career service reads.
type Network interface {
	GetMember(ctx context.Context, memberID string) (domain.Member, error)
	Upline(ctx context.Context, memberID string, maxDepth int) ([]domain.Member, error)
	DirectReferrals(ctx context.Context, memberID string) ([]string, error)
	SponsorDownline(ctx context.Context, memberID string, visit func(domain.Member) bool) error
}

// Ledger posts completed internal entries atomically.
type Ledger interface {
	PostBatch(ctx context.Context, entries []*domain.Transaction) ([]*domain.Transaction, error)
}

type Config struct {
	BaseCurrency string
}

type DefaultCareerUsecase struct {
	evaluator    *Evaluator
	careerRepo   domain.CareerRepository
	txRepo       domain.TransactionRepository
	network      Network
	ledger       Ledger
	rates        domain.ExchangeRateProvider
	publisher    domain.EventPublisher
	baseCurrency string
	Metrics      *metrics.CompensationMetrics
}

func NewDefaultCareerUsecase(
	evaluator *Evaluator,
	careerRepo domain.CareerRepository,
	txRepo domain.TransactionRepository,
	network Network,
	ledger Ledger,
	rates domain.ExchangeRateProvider,
	publisher domain.EventPublisher,
	cfg Config,
	metrics *metrics.CompensationMetrics,
) *DefaultCareerUsecase {
	return &DefaultCareerUsecase{
		evaluator:    evaluator,
		careerRepo:   careerRepo,
		txRepo:       txRepo,
		network:      network,
		ledger:       ledger,
		rates:        rates,
		publisher:    publisher,
		baseCurrency: cfg.BaseCurrency,
		Metrics:      metrics,
	}
}

func (uc *DefaultCareerUsecase) Evaluator() *Evaluator {
	return uc.evaluator
}

// Level returns the stored level; members never evaluated hold the entry level.
func (uc *DefaultCareerUsecase) Level(ctx context.Context, memberID string) (domain.CareerLevel, error) {
	if _, err := uc.network.GetMember(ctx, memberID); err != nil {
		return domain.CareerLevel{}, err
	}
	rank, err := uc.careerRepo.GetRank(ctx, memberID)
	if err != nil {
		return domain.CareerLevel{}, fmt.Errorf("get rank %s: %w", memberID, err)
	}
	return uc.evaluator.Table().ByRank(rank), nil
}
