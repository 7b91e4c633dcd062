package domain

import (
	"context"
	"fmt"
	"strings"
)

type PlanType string

const (
	PlanBinary   PlanType = "binary"
	PlanMonoline PlanType = "monoline"
)

type Side int

const (
	SideLeft  Side = 0
	SideRight Side = 1
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ParseSide returns nil for an empty value, meaning "no preference".
func ParseSide(value string) (*Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "left", "l":
		side := SideLeft
		return &side, nil
	case "right", "r":
		side := SideRight
		return &side, nil
	default:
		return nil, fmt.Errorf("unknown side %q", value)
	}
}

// NetworkNode is a member placed in the tree. Children holds one entry per
// slot (empty string for a free slot); LegSizes[i] is the cached subtree size
// below Children[i].
type NetworkNode struct {
	Member   Member
	ParentID string
	Position int
	Seq      int64
	Children []string
	LegSizes []int64
}

func NewNetworkNode(member Member, parentID string, position int, seq int64, width int) *NetworkNode {
	return &NetworkNode{
		Member:   member,
		ParentID: parentID,
		Position: position,
		Seq:      seq,
		Children: make([]string, width),
		LegSizes: make([]int64, width),
	}
}

func (n *NetworkNode) SubtreeSize() int64 {
	size := int64(1)
	for _, leg := range n.LegSizes {
		size += leg
	}
	return size
}

// FreeSlot returns the first empty child slot or -1.
func (n *NetworkNode) FreeSlot() int {
	for i, child := range n.Children {
		if child == "" {
			return i
		}
	}
	return -1
}

func (n *NetworkNode) Clone() *NetworkNode {
	c := *n
	c.Children = append([]string(nil), n.Children...)
	c.LegSizes = append([]int64(nil), n.LegSizes...)
	return &c
}

type NetworkRepository interface {
	LoadNodes(ctx context.Context) ([]*NetworkNode, error)
	// SavePlacement stores the new node and increments the subtree size of
	// every placement ancestor in one unit.
	SavePlacement(ctx context.Context, node *NetworkNode, ancestorIDs []string) error
	UpdateMemberStatus(ctx context.Context, memberID string, status MemberStatus) error
}
