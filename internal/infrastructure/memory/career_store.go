package memory

import (
	"context"
	"sync"
	"time"
)

type CareerStore struct {
	mu    sync.RWMutex
	ranks map[string]int
}

func NewCareerStore() *CareerStore {
	return &CareerStore{ranks: make(map[string]int)}
}

func (s *CareerStore) GetRank(ctx context.Context, memberID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranks[memberID], nil
}

func (s *CareerStore) PromoteRank(ctx context.Context, memberID string, rank int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rank <= s.ranks[memberID] {
		return false, nil
	}
	s.ranks[memberID] = rank
	return true, nil
}

func (s *CareerStore) LoadRanks(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.ranks))
	for id, rank := range s.ranks {
		out[id] = rank
	}
	return out, nil
}
