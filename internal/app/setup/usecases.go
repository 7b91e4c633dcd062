package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	providers "github.com/LavaJover/shvark-compensation-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/enrollment"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/exchange"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
)

type UseCases struct {
	WalletUsecase     wallet.WalletUsecase
	NetworkUsecase    network.NetworkUsecase
	CareerUsecase     career.CareerUsecase
	CommissionUsecase commission.CommissionUsecase
	EnrollmentUsecase enrollment.EnrollmentUsecase
	// ExchangeUsecase is nil when no rate feed is configured.
	ExchangeUsecase exchange.ExchangeUsecase
}

func InitializeUseCases(ctx context.Context, deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	repos := deps.Repositories

	var rates domain.ExchangeRateProvider
	var exchangeUc exchange.ExchangeUsecase
	var feeds []domain.ExchangeRateProvider
	if cfg.Rates.BaseURL != "" {
		feeds = append(feeds, providers.NewRapiraProvider(cfg.Rates.BaseURL, cfg.Rates.Timeout, cfg.Rates.Positions))
	}
	if cfg.Rates.BybitURL != "" {
		feeds = append(feeds, providers.NewBybitProvider(cfg.Rates.BybitURL, cfg.Rates.Timeout, cfg.Rates.Positions))
	}
	if len(feeds) > 0 {
		uc := exchange.NewDefaultExchangeUsecase(deps.RateCache, cfg.Redis.RateTTL, feeds...)
		rates, exchangeUc = uc, uc
	}

	networkUc, err := network.NewDefaultNetworkUsecase(repos.NetworkRepo, deps.Directory, network.Config{
		Plan:             domain.PlanType(cfg.Plan.Type),
		MonolineWidth:    cfg.Plan.MonolineWidth,
		BalanceThreshold: cfg.Plan.BalanceThreshold,
	}, deps.Metrics)
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	if err := networkUc.Load(ctx); err != nil {
		return nil, fmt.Errorf("network load: %w", err)
	}

	walletUc, err := wallet.NewDefaultWalletUsecase(repos.TransactionRepo, rates, deps.Publisher, wallet.Config{
		Currencies: cfg.Plan.Currencies,
	}, deps.Metrics)
	if err != nil {
		return nil, err
	}

	careerUc := career.NewDefaultCareerUsecase(
		career.NewEvaluator(deps.Tables.Career),
		repos.CareerRepo,
		repos.TransactionRepo,
		networkUc,
		walletUc,
		rates,
		deps.Publisher,
		career.Config{BaseCurrency: cfg.Plan.BaseCurrency},
		deps.Metrics,
	)

	commissionUc := commission.NewDefaultCommissionUsecase(
		deps.Tables.Commission,
		repos.TransactionRepo,
		networkUc,
		careerUc,
		walletUc,
		repos.DistributionLog,
		deps.Publisher,
		commission.Config{
			MaxDepth:       cfg.Plan.MaxDepth,
			Precision:      cfg.Plan.Precision,
			MinPayableUnit: deps.Tables.MinPayableUnit,
		},
		deps.Metrics,
	)
	walletUc.RegisterSettlementHook(commissionUc.HandleApproved)

	return &UseCases{
		WalletUsecase:     walletUc,
		NetworkUsecase:    networkUc,
		CareerUsecase:     careerUc,
		CommissionUsecase: commissionUc,
		EnrollmentUsecase: enrollment.NewDefaultEnrollmentUsecase(networkUc, careerUc, cfg.Plan.MaxDepth),
		ExchangeUsecase:   exchangeUc,
	}, nil
}
