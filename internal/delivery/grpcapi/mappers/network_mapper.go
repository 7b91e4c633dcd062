package mappers

import (
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

func ToPBMember(m domain.Member) *compensationpb.Member {
	return &compensationpb.Member{
		ID:        m.ID,
		SponsorID: m.SponsorID,
		Status:    string(m.Status),
		JoinedAt:  m.JoinedAt,
	}
}

func ToPBNode(node *domain.NetworkNode) *compensationpb.Node {
	return &compensationpb.Node{
		Member:      ToPBMember(node.Member),
		ParentID:    node.ParentID,
		Position:    node.Position,
		Children:    node.Children,
		LegSizes:    node.LegSizes,
		SubtreeSize: node.SubtreeSize(),
	}
}
