package mappers

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/models"
)

// ToDomainNetworkNode leaves Children and LegSizes empty; the tree index
// rebuilds them from parent links on load.
func ToDomainNetworkNode(model *models.NetworkNodeModel) *domain.NetworkNode {
	return &domain.NetworkNode{
		Member: domain.Member{
			ID:        model.MemberID,
			SponsorID: model.SponsorID,
			Status:    domain.MemberStatus(model.Status),
			JoinedAt:  model.JoinedAt,
		},
		ParentID: fromNullable(model.ParentID),
		Position: model.Position,
		Seq:      model.Seq,
	}
}

func ToGORMNetworkNode(node *domain.NetworkNode) *models.NetworkNodeModel {
	return &models.NetworkNodeModel{
		MemberID:    node.Member.ID,
		SponsorID:   node.Member.SponsorID,
		ParentID:    toNullable(node.ParentID),
		Position:    node.Position,
		Seq:         node.Seq,
		Status:      string(node.Member.Status),
		SubtreeSize: 1,
		JoinedAt:    node.Member.JoinedAt,
	}
}
