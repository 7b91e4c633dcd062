package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

var errSlotTaken = errors.New("slot taken")

type slot struct {
	parentID  string
	position  int
	ancestors []string
}

// Place attaches memberID below sponsorID. The slot is chosen under a read
// lock and claimed with a compare-and-swap under the write lock; a lost race
// recomputes the slot.
func (uc *DefaultNetworkUsecase) Place(ctx context.Context, memberID, sponsorID string, side *domain.Side) (*domain.NetworkNode, error) {
	if memberID == "" {
		return nil, domain.ErrMemberNotFound
	}
	if memberID == sponsorID {
		return nil, fmt.Errorf("%w: member cannot sponsor itself", domain.ErrInvalidSponsor)
	}
	if err := uc.checkDirectory(ctx, memberID, sponsorID); err != nil {
		return nil, err
	}

	start := time.Now()
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		target, err := uc.findSlot(memberID, sponsorID, side)
		if err != nil {
			return nil, err
		}
		node, err := uc.claim(ctx, memberID, sponsorID, target)
		if errors.Is(err, errSlotTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if uc.Metrics != nil {
			uc.Metrics.RecordPlacement(string(uc.plan), node.ParentID != sponsorID)
			uc.Metrics.RecordOperationDuration("place", time.Since(start).Seconds())
		}
		slog.Info("member placed",
			"member_id", memberID,
			"sponsor_id", sponsorID,
			"parent_id", node.ParentID,
			"position", node.Position,
		)
		return node, nil
	}
	return nil, fmt.Errorf("place %s: no free slot after %d attempts", memberID, maxPlacementAttempts)
}

func (uc *DefaultNetworkUsecase) checkDirectory(ctx context.Context, memberID, sponsorID string) error {
	if uc.directory == nil {
		return nil
	}
	exists, err := uc.directory.Exists(ctx, memberID)
	if err != nil {
		return fmt.Errorf("directory lookup %s: %w", memberID, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	if sponsorID == "" {
		return nil
	}
	active, err := uc.directory.IsActive(ctx, sponsorID)
	if err != nil {
		return fmt.Errorf("directory lookup %s: %w", sponsorID, err)
	}
	if !active {
		return fmt.Errorf("%w: sponsor %s is not active in the directory", domain.ErrInvalidSponsor, sponsorID)
	}
	return nil
}

// validSponsor must be called with mu held.
func (uc *DefaultNetworkUsecase) validSponsor(memberID, sponsorID string) error {
	if _, exists := uc.nodes[memberID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrMemberExists, memberID)
	}
	if sponsorID == "" {
		if len(uc.nodes) > 0 {
			return fmt.Errorf("%w: root already exists", domain.ErrInvalidSponsor)
		}
		return nil
	}
	sponsor, ok := uc.nodes[sponsorID]
	if !ok {
		return fmt.Errorf("%w: sponsor %s is not placed", domain.ErrInvalidSponsor, sponsorID)
	}
	if !sponsor.Member.IsActive() {
		return fmt.Errorf("%w: sponsor %s is deactivated", domain.ErrInvalidSponsor, sponsorID)
	}
	return nil
}

func (uc *DefaultNetworkUsecase) findSlot(memberID, sponsorID string, side *domain.Side) (*slot, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if err := uc.validSponsor(memberID, sponsorID); err != nil {
		return nil, err
	}
	if sponsorID == "" {
		return &slot{position: 0}, nil
	}

	var parent *domain.NetworkNode
	var position int
	if uc.plan == domain.PlanBinary {
		parent, position = uc.binarySlot(uc.nodes[sponsorID], side)
	} else {
		parent, position = uc.monolineSlot()
	}
	if parent == nil {
		return nil, fmt.Errorf("place %s: tree has no free slot", memberID)
	}
	return &slot{
		parentID:  parent.Member.ID,
		position:  position,
		ancestors: uc.placementPath(parent.Member.ID),
	}, nil
}

// binarySlot honours the requested side at the sponsor, then descends into
// the smaller leg (tie left) until a node with a free slot is found.
func (uc *DefaultNetworkUsecase) binarySlot(start *domain.NetworkNode, side *domain.Side) (*domain.NetworkNode, int) {
	cur := start
	if side != nil {
		want := int(*side)
		if cur.Children[want] == "" {
			return cur, want
		}
		cur = uc.nodes[cur.Children[want]]
	}
	for cur != nil {
		if free := cur.FreeSlot(); free >= 0 {
			return cur, free
		}
		next := domain.SideLeft
		if cur.LegSizes[domain.SideRight] < cur.LegSizes[domain.SideLeft] {
			next = domain.SideRight
		}
		cur = uc.nodes[cur.Children[next]]
	}
	return nil, -1
}

// monolineSlot returns the first free slot in placement order, which is a
// breadth-first fill of the whole tree.
func (uc *DefaultNetworkUsecase) monolineSlot() (*domain.NetworkNode, int) {
	for i := uc.cursor; i < len(uc.order); i++ {
		node := uc.nodes[uc.order[i]]
		if free := node.FreeSlot(); free >= 0 {
			return node, free
		}
	}
	return nil, -1
}

// placementPath returns id and its placement ancestors up to the root.
func (uc *DefaultNetworkUsecase) placementPath(id string) []string {
	var path []string
	for id != "" {
		path = append(path, id)
		id = uc.nodes[id].ParentID
	}
	return path
}

func (uc *DefaultNetworkUsecase) claim(ctx context.Context, memberID, sponsorID string, target *slot) (*domain.NetworkNode, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.validSponsor(memberID, sponsorID); err != nil {
		return nil, err
	}
	var parent *domain.NetworkNode
	if target.parentID != "" {
		parent = uc.nodes[target.parentID]
		if parent.Children[target.position] != "" {
			return nil, errSlotTaken
		}
	}

	member := domain.Member{
		ID:        memberID,
		SponsorID: sponsorID,
		Status:    domain.MemberActive,
		JoinedAt:  time.Now().UTC(),
	}
	node := domain.NewNetworkNode(member, target.parentID, target.position, uc.seq+1, uc.width)
	if err := uc.repo.SavePlacement(ctx, node, target.ancestors); err != nil {
		slog.Error("failed to save placement", "member_id", memberID, "error", err.Error())
		return nil, fmt.Errorf("save placement: %w", err)
	}

	before := len(uc.nodes)
	uc.seq++
	uc.nodes[memberID] = node
	uc.order = append(uc.order, memberID)
	if sponsorID == "" {
		uc.root = memberID
	} else {
		uc.sponsored[sponsorID] = append(uc.sponsored[sponsorID], memberID)
	}
	if parent != nil {
		parent.Children[target.position] = memberID
	}
	// O(depth) leg size maintenance along the placement path.
	child := node
	for child.ParentID != "" {
		p := uc.nodes[child.ParentID]
		p.LegSizes[child.Position]++
		child = p
	}
	uc.advanceCursor()

	if len(uc.nodes) != before+1 {
		panic(fmt.Sprintf("network: node count %d after placing into %d nodes", len(uc.nodes), before))
	}
	return node.Clone(), nil
}
