package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-compensation-service/internal/client"
	"github.com/LavaJover/shvark-compensation-service/internal/config"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/cache"
	publisher "github.com/LavaJover/shvark-compensation-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/exchange"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Dependencies struct {
	Config       *config.CompensationConfig
	Tables       *config.Tables
	DB           *gorm.DB
	Redis        *redis.Client
	Registry     *prometheus.Registry
	Metrics      *metrics.CompensationMetrics
	Repositories *Repositories
	RateCache    exchange.RateCache
	Directory    domain.MemberDirectory
	Publisher    domain.EventPublisher
	Subscriber   domain.SubscriberPort

	kafka *publisher.DefaultKafkaPublisher
}

type Repositories struct {
	TransactionRepo domain.TransactionRepository
	NetworkRepo     domain.NetworkRepository
	CareerRepo      domain.CareerRepository
	DistributionLog domain.DistributionLogger
}

func InitializeDependencies(cfg *config.CompensationConfig) (*Dependencies, error) {
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := &Dependencies{
		Config:   cfg,
		Tables:   tables,
		Registry: registry,
		Metrics:  metrics.NewCompensationMetrics(registry),
	}

	switch cfg.CompensationDB.Driver {
	case DriverPostgres:
		deps.DB = postgres.MustInitDB(cfg)
		if err := migrate.RunMigrations(deps.DB, cfg.CompensationDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		deps.Repositories = &Repositories{
			TransactionRepo: repository.NewDefaultTransactionRepository(deps.DB),
			NetworkRepo:     repository.NewDefaultNetworkRepository(deps.DB),
			CareerRepo:      repository.NewDefaultCareerRepository(deps.DB),
			DistributionLog: logger.NewPGDistributionLogger(deps.DB),
		}
	case DriverMemory:
		slog.Warn("using in-memory storage, state is lost on restart")
		deps.Repositories = &Repositories{
			TransactionRepo: memory.NewTransactionStore(),
			NetworkRepo:     memory.NewNetworkStore(),
			CareerRepo:      memory.NewCareerStore(),
			DistributionLog: memory.NewDistributionLog(),
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.CompensationDB.Driver)
	}

	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		deps.RateCache = cache.NewRedisRateCache(deps.Redis, "compensation:rate:")
	} else {
		deps.RateCache = memory.NewRateCache()
	}

	if cfg.Directory.Enabled {
		deps.Directory = client.NewDirectoryClient(cfg.Directory.Address, cfg.Directory.Timeout)
	}

	if cfg.Kafka.Enabled {
		deps.kafka = publisher.NewDefaultKafkaPublisher(cfg.Kafka.Brokers)
		deps.Publisher = publisher.NewEventPublisher(deps.kafka, publisher.Topics{
			Ledger:     cfg.Kafka.LedgerTopic,
			Commission: cfg.Kafka.CommissionTopic,
			Career:     cfg.Kafka.CareerTopic,
		}, 3)
		deps.Subscriber = publisher.NewDefaultKafkaSubscriber(cfg.Kafka.Brokers)
	}

	return deps, nil
}

// HealthCheck pings the database and redis when they are configured.
func (d *Dependencies) HealthCheck(ctx context.Context) map[string]error {
	checks := make(map[string]error)
	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		checks["database"] = err
	}
	if d.Redis != nil {
		checks["redis"] = d.Redis.Ping(ctx).Err()
	}
	return checks
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.kafka != nil {
		errs = append(errs, d.kafka.Close())
	}
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
