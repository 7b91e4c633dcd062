package postgres

import (
	"log"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the pool. The schema itself is owned by the SQL
// migrations, not by gorm.
func MustInitDB(cfg *config.CompensationConfig) *gorm.DB {
	dsn := cfg.CompensationDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db
}
