package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

type NetworkStore struct {
	mu    sync.Mutex
	nodes map[string]*domain.NetworkNode
	// size is the persisted subtree size per member.
	size map[string]int64

	// FailPlacements makes SavePlacement fail.
	FailPlacements bool
}

func NewNetworkStore() *NetworkStore {
	return &NetworkStore{
		nodes: make(map[string]*domain.NetworkNode),
		size:  make(map[string]int64),
	}
}

func (s *NetworkStore) LoadNodes(ctx context.Context) ([]*domain.NetworkNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.NetworkNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		out = append(out, node.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *NetworkStore) SavePlacement(ctx context.Context, node *domain.NetworkNode, ancestorIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPlacements {
		return fmt.Errorf("save placement %s: %w", node.Member.ID, ErrInjected)
	}
	if _, exists := s.nodes[node.Member.ID]; exists {
		return domain.ErrMemberExists
	}
	for _, other := range s.nodes {
		if node.ParentID != "" && other.ParentID == node.ParentID && other.Position == node.Position {
			return fmt.Errorf("slot %d under %s already taken", node.Position, node.ParentID)
		}
	}

	stored := node.Clone()
	for i := range stored.Children {
		stored.Children[i] = ""
		stored.LegSizes[i] = 0
	}
	s.nodes[node.Member.ID] = stored
	s.size[node.Member.ID] = 1
	for _, id := range ancestorIDs {
		s.size[id]++
	}
	if parent, ok := s.nodes[node.ParentID]; ok {
		parent.Children[node.Position] = node.Member.ID
	}
	// Rebuild leg sizes from persisted subtree sizes, as a database load would.
	for _, n := range s.nodes {
		for i, child := range n.Children {
			if child != "" {
				n.LegSizes[i] = s.size[child]
			}
		}
	}
	return nil
}

func (s *NetworkStore) UpdateMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[memberID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	node.Member.Status = status
	return nil
}
