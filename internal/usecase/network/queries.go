package network

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

func (uc *DefaultNetworkUsecase) GetNode(ctx context.Context, memberID string) (*domain.NetworkNode, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	return node.Clone(), nil
}

func (uc *DefaultNetworkUsecase) GetMember(ctx context.Context, memberID string) (domain.Member, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return domain.Member{}, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	return node.Member, nil
}

// SubtreeSize returns the size of the member's subtree including the member,
// or the size of one leg when side is set.
func (uc *DefaultNetworkUsecase) SubtreeSize(ctx context.Context, memberID string, side *domain.Side) (int64, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	if side == nil {
		return node.SubtreeSize(), nil
	}
	if uc.plan != domain.PlanBinary {
		return 0, domain.ErrNotBinaryPlan
	}
	return node.LegSizes[*side], nil
}

func (uc *DefaultNetworkUsecase) DirectReferrals(ctx context.Context, memberID string) ([]string, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if _, ok := uc.nodes[memberID]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	return append([]string(nil), uc.sponsored[memberID]...), nil
}

// SponsorDownline visits every member sponsored directly or indirectly by
// memberID, breadth first, until visit returns false.
func (uc *DefaultNetworkUsecase) SponsorDownline(ctx context.Context, memberID string, visit func(domain.Member) bool) error {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if _, ok := uc.nodes[memberID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	queue := append([]string(nil), uc.sponsored[memberID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !visit(uc.nodes[id].Member) {
			return nil
		}
		queue = append(queue, uc.sponsored[id]...)
	}
	return nil
}

func (uc *DefaultNetworkUsecase) ActiveMembers(ctx context.Context) []domain.Member {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	members := make([]domain.Member, 0, len(uc.order))
	for _, id := range uc.order {
		if m := uc.nodes[id].Member; m.IsActive() {
			members = append(members, m)
		}
	}
	return members
}

func (uc *DefaultNetworkUsecase) Deactivate(ctx context.Context, memberID string) error {
	return uc.setStatus(ctx, memberID, domain.MemberDeactivated)
}

func (uc *DefaultNetworkUsecase) Reactivate(ctx context.Context, memberID string) error {
	return uc.setStatus(ctx, memberID, domain.MemberActive)
}

func (uc *DefaultNetworkUsecase) setStatus(ctx context.Context, memberID string, status domain.MemberStatus) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	if node.Member.Status == status {
		return nil
	}
	if err := uc.repo.UpdateMemberStatus(ctx, memberID, status); err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	node.Member.Status = status
	slog.Info("member status changed", "member_id", memberID, "status", string(status))
	return nil
}
