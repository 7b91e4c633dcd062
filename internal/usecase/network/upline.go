package network

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

// Upline returns the sponsor chain of memberID, nearest first, with at most
// maxDepth entries (no limit when maxDepth <= 0). A sponsor that cannot be
// resolved is returned with MemberUnknown status and ends the chain.
func (uc *DefaultNetworkUsecase) Upline(ctx context.Context, memberID string, maxDepth int) ([]domain.Member, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	node, ok := uc.nodes[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}

	var upline []domain.Member
	seen := map[string]struct{}{memberID: {}}
	sponsorID := node.Member.SponsorID
	for sponsorID != "" && (maxDepth <= 0 || len(upline) < maxDepth) {
		sponsor, ok := uc.nodes[sponsorID]
		if !ok {
			upline = append(upline, domain.Member{ID: sponsorID, Status: domain.MemberUnknown})
			break
		}
		if _, loop := seen[sponsorID]; loop {
			upline = append(upline, domain.Member{ID: sponsorID, Status: domain.MemberUnknown})
			break
		}
		seen[sponsorID] = struct{}{}
		upline = append(upline, sponsor.Member)
		sponsorID = sponsor.Member.SponsorID
	}
	return upline, nil
}
