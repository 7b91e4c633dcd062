package network

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
)

type NetworkUsecase interface {
	Load(ctx context.Context) error
	Place(ctx context.Context, memberID, sponsorID string, side *domain.Side) (*domain.NetworkNode, error)
	Upline(ctx context.Context, memberID string, maxDepth int) ([]domain.Member, error)
	SubtreeSize(ctx context.Context, memberID string, side *domain.Side) (int64, error)
	Deactivate(ctx context.Context, memberID string) error
	Reactivate(ctx context.Context, memberID string) error

	GetNode(ctx context.Context, memberID string) (*domain.NetworkNode, error)
	GetMember(ctx context.Context, memberID string) (domain.Member, error)
	DirectReferrals(ctx context.Context, memberID string) ([]string, error)
	SponsorDownline(ctx context.Context, memberID string, visit func(domain.Member) bool) error
	ActiveMembers(ctx context.Context) []domain.Member
	Count() int
	Plan() domain.PlanType

	LegBalance(ctx context.Context, memberID string) (*LegBalance, error)
	Recommendation(ctx context.Context, memberID string) (domain.Side, error)
}

type Config struct {
	Plan             domain.PlanType
	MonolineWidth    int
	BalanceThreshold float64
}

const (
	defaultBalanceThreshold = 0.20
	maxPlacementAttempts    = 16
)

// DefaultNetworkUsecase keeps the whole tree in memory as the index for
// placement and upline queries. Every placement is written through to the
// repository before it becomes visible.
type DefaultNetworkUsecase struct {
	repo      domain.NetworkRepository
	directory domain.MemberDirectory
	Metrics   *metrics.CompensationMetrics

	plan      domain.PlanType
	width     int
	threshold float64

	mu        sync.RWMutex
	nodes     map[string]*domain.NetworkNode
	sponsored map[string][]string
	order     []string
	// cursor is the index in order of the first node that may still have a
	// free slot; used by monoline placement.
	cursor int
	seq    int64
	root   string
}

func NewDefaultNetworkUsecase(
	repo domain.NetworkRepository,
	directory domain.MemberDirectory,
	cfg Config,
	metrics *metrics.CompensationMetrics,
) (*DefaultNetworkUsecase, error) {
	uc := &DefaultNetworkUsecase{
		repo:      repo,
		directory: directory,
		Metrics:   metrics,
		plan:      cfg.Plan,
		threshold: cfg.BalanceThreshold,
		nodes:     make(map[string]*domain.NetworkNode),
		sponsored: make(map[string][]string),
	}
	switch cfg.Plan {
	case domain.PlanBinary:
		uc.width = 2
	case domain.PlanMonoline:
		uc.width = cfg.MonolineWidth
		if uc.width <= 0 {
			uc.width = 1
		}
	default:
		return nil, fmt.Errorf("unknown plan type %q", cfg.Plan)
	}
	if uc.threshold <= 0 {
		uc.threshold = defaultBalanceThreshold
	}
	return uc, nil
}

func (uc *DefaultNetworkUsecase) Plan() domain.PlanType {
	return uc.plan
}

// Load rebuilds the in-memory index from the repository. Children and leg
// sizes are recomputed from parent links so a stale cache cannot survive a
// restart.
func (uc *DefaultNetworkUsecase) Load(ctx context.Context) error {
	stored, err := uc.repo.LoadNodes(ctx)
	if err != nil {
		return fmt.Errorf("load network nodes: %w", err)
	}

	nodes := make(map[string]*domain.NetworkNode, len(stored))
	sponsored := make(map[string][]string)
	order := make([]string, 0, len(stored))
	var root string
	var seq int64

	for _, n := range stored {
		node := domain.NewNetworkNode(n.Member, n.ParentID, n.Position, n.Seq, uc.width)
		nodes[node.Member.ID] = node
		order = append(order, node.Member.ID)
		if node.Member.SponsorID == "" {
			root = node.Member.ID
		} else {
			sponsored[node.Member.SponsorID] = append(sponsored[node.Member.SponsorID], node.Member.ID)
		}
		if node.Seq > seq {
			seq = node.Seq
		}
	}
	for _, id := range order {
		node := nodes[id]
		if node.ParentID == "" {
			continue
		}
		parent, ok := nodes[node.ParentID]
		if !ok || node.Position < 0 || node.Position >= uc.width {
			return fmt.Errorf("node %s has invalid placement %s/%d", id, node.ParentID, node.Position)
		}
		parent.Children[node.Position] = id
	}
	// Children always have a higher seq than their parent.
	for i := len(order) - 1; i >= 0; i-- {
		node := nodes[order[i]]
		if parent, ok := nodes[node.ParentID]; ok {
			parent.LegSizes[node.Position] = node.SubtreeSize()
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.nodes = nodes
	uc.sponsored = sponsored
	uc.order = order
	uc.root = root
	uc.seq = seq
	uc.cursor = 0
	uc.advanceCursor()

	slog.Info("network tree loaded", "nodes", len(nodes), "plan", string(uc.plan))
	return nil
}

// advanceCursor must be called with mu held for writing.
func (uc *DefaultNetworkUsecase) advanceCursor() {
	for uc.cursor < len(uc.order) && uc.nodes[uc.order[uc.cursor]].FreeSlot() < 0 {
		uc.cursor++
	}
}

func (uc *DefaultNetworkUsecase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.nodes)
}
