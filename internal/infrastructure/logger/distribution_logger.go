package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RedirectedShareEvent is one share that went to the system fund because
// its beneficiary was deactivated or could not be resolved.
type RedirectedShareEvent struct {
	ID                  uint   `gorm:"primaryKey"`
	OriginTransactionID string `gorm:"index"`
	MemberID            string
	Reason              string
	RedirectedAmount    decimal.Decimal `gorm:"type:numeric(36,18)"`
	Currency            string
	Timestamp           time.Time
}

func (RedirectedShareEvent) TableName() string {
	return "distribution_logs"
}

type PGDistributionLogger struct {
	db *gorm.DB
}

func NewPGDistributionLogger(db *gorm.DB) *PGDistributionLogger {
	return &PGDistributionLogger{db: db}
}

func (l *PGDistributionLogger) LogPartialFailure(ctx context.Context, entry domain.DistributionLog) error {
	at := entry.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return l.db.WithContext(ctx).Create(&RedirectedShareEvent{
		OriginTransactionID: entry.OriginTransactionID,
		MemberID:            entry.MemberID,
		Reason:              entry.Reason,
		RedirectedAmount:    entry.RedirectedAmount,
		Currency:            entry.Currency,
		Timestamp:           at,
	}).Error
}
