package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

type DistributionLog struct {
	mu      sync.Mutex
	entries []domain.DistributionLog
}

func NewDistributionLog() *DistributionLog {
	return &DistributionLog{}
}

func (l *DistributionLog) LogPartialFailure(ctx context.Context, entry domain.DistributionLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.ID = uint(len(l.entries) + 1)
	l.entries = append(l.entries, entry)
	return nil
}

func (l *DistributionLog) Entries() []domain.DistributionLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.DistributionLog(nil), l.entries...)
}
