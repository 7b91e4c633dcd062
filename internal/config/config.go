package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type CompensationConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	GRPCServer     `yaml:"grpc_server"`
	HTTPServer     `yaml:"http_server"`
	CompensationDB `yaml:"compensation_db"`
	LogConfig      `yaml:"log_config"`
	Kafka          KafkaConfig       `yaml:"kafka"`
	Redis          RedisConfig       `yaml:"redis"`
	Rates          RatesConfig       `yaml:"rates"`
	Directory      DirectoryConfig   `yaml:"directory"`
	Plan           PlanConfig        `yaml:"plan"`
	CareerLevels   []CareerLevelSpec `yaml:"career_levels"`
	Background     BackgroundConfig  `yaml:"background"`
}

// Tables are the validated rule sets built from the plan section.
type Tables struct {
	Commission     *domain.CommissionTable
	Career         *domain.CareerTable
	MinPayableUnit decimal.Decimal
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50057"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8087"`
}

type CompensationDB struct {
	// Driver is "postgres" or "memory".
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type KafkaConfig struct {
	Enabled           bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers           []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	LedgerTopic       string   `yaml:"ledger_topic" env-default:"ledger-events"`
	CommissionTopic   string   `yaml:"commission_topic" env-default:"commission-events"`
	CareerTopic       string   `yaml:"career_topic" env-default:"career-events"`
	MemberEventsTopic string   `yaml:"member_events_topic" env-default:"member-events"`
	GroupID           string   `yaml:"group_id" env-default:"compensation-service"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	RateTTL  time.Duration `yaml:"rate_ttl" env-default:"5m"`
}

// RatesConfig enables a provider for every non-empty URL; Rapira is asked
// first.
type RatesConfig struct {
	BaseURL   string        `yaml:"base_url" env:"RATES_BASE_URL"`
	BybitURL  string        `yaml:"bybit_url" env:"RATES_BYBIT_URL"`
	Positions int           `yaml:"positions" env-default:"5"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

type DirectoryConfig struct {
	Enabled bool          `yaml:"enabled" env:"DIRECTORY_ENABLED" env-default:"false"`
	Address string        `yaml:"address" env:"DIRECTORY_ADDRESS"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type BackgroundConfig struct {
	ReconcileInterval    time.Duration `yaml:"reconcile_interval" env-default:"1m"`
	ReconcileBatch       int           `yaml:"reconcile_batch" env-default:"100"`
	RatesRefreshInterval time.Duration `yaml:"rates_refresh_interval" env-default:"5m"`
	// PayoutInterval of zero disables the passive pool payout.
	PayoutInterval time.Duration `yaml:"payout_interval" env-default:"0s"`
}

type PlanConfig struct {
	Type             string     `yaml:"type" env:"PLAN_TYPE" env-default:"binary"`
	MaxDepth         int        `yaml:"max_depth" env-default:"7"`
	MonolineWidth    int        `yaml:"monoline_width" env-default:"1"`
	Precision        int32      `yaml:"precision" env-default:"2"`
	MinPayableUnit   string     `yaml:"min_payable_unit" env-default:"0"`
	BaseCurrency     string     `yaml:"base_currency" env-default:"USD"`
	Currencies       []string   `yaml:"currencies" env-separator:","`
	BalanceThreshold float64    `yaml:"balance_threshold" env-default:"0.3"`
	Rules            []RuleSpec `yaml:"rules"`
}

type RuleSpec struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	Rate string `yaml:"rate"`
}

type CareerLevelSpec struct {
	Rank                 int    `yaml:"rank"`
	Name                 string `yaml:"name"`
	MinInvestment        string `yaml:"min_investment"`
	MinDirectReferrals   int    `yaml:"min_direct_referrals"`
	CommissionRate       string `yaml:"commission_rate"`
	PassiveRate          string `yaml:"passive_rate"`
	FlatBonus            string `yaml:"flat_bonus"`
	RequiredDownlineRank int    `yaml:"required_downline_rank"`
}

func MustLoad() *CompensationConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v\n", err)
	}

	configPath := os.Getenv("COMPENSATION_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("COMPENSATION_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}

// Load reads and validates the YAML config at path.
func Load(path string) (*CompensationConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CompensationConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *CompensationConfig) Validate() error {
	switch domain.PlanType(c.Plan.Type) {
	case domain.PlanBinary, domain.PlanMonoline:
	default:
		return fmt.Errorf("unknown plan type %q", c.Plan.Type)
	}
	switch c.CompensationDB.Driver {
	case "postgres":
		if c.CompensationDB.Dsn == "" {
			return fmt.Errorf("compensation_db.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown db driver %q", c.CompensationDB.Driver)
	}
	if len(c.Plan.Currencies) == 0 {
		return fmt.Errorf("plan.currencies must not be empty")
	}
	if c.Plan.Precision < 0 {
		return fmt.Errorf("plan.precision must not be negative")
	}
	_, err := c.Tables()
	return err
}

// Tables builds the commission and career tables from the plan section.
func (c *CompensationConfig) Tables() (*Tables, error) {
	minUnit, err := parseAmount(c.Plan.MinPayableUnit)
	if err != nil {
		return nil, fmt.Errorf("plan.min_payable_unit: %w", err)
	}

	rules := make([]domain.CommissionRule, 0, len(c.Plan.Rules))
	for _, r := range c.Plan.Rules {
		rate, err := parseAmount(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("rule %q rate: %w", r.ID, err)
		}
		rules = append(rules, domain.CommissionRule{ID: r.ID, Kind: domain.RuleKind(r.Kind), Rate: rate})
	}
	table, err := domain.NewCommissionTable(rules)
	if err != nil {
		return nil, err
	}

	levels := make([]domain.CareerLevel, 0, len(c.CareerLevels))
	for _, l := range c.CareerLevels {
		level := domain.CareerLevel{
			Rank:                 l.Rank,
			Name:                 l.Name,
			MinDirectReferrals:   l.MinDirectReferrals,
			RequiredDownlineRank: l.RequiredDownlineRank,
		}
		fields := []struct {
			value  string
			target *decimal.Decimal
		}{
			{l.MinInvestment, &level.MinInvestment},
			{l.CommissionRate, &level.CommissionRate},
			{l.PassiveRate, &level.PassiveRate},
			{l.FlatBonus, &level.FlatBonus},
		}
		for _, f := range fields {
			v, err := parseAmount(f.value)
			if err != nil {
				return nil, fmt.Errorf("career level %q: %w", l.Name, err)
			}
			*f.target = v
		}
		levels = append(levels, level)
	}
	career, err := domain.NewCareerTable(levels)
	if err != nil {
		return nil, err
	}

	return &Tables{Commission: table, Career: career, MinPayableUnit: minUnit}, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}
