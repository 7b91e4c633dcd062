package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultNetworkRepository struct {
	DB *gorm.DB
}

func NewDefaultNetworkRepository(db *gorm.DB) *DefaultNetworkRepository {
	return &DefaultNetworkRepository{DB: db}
}

func (r *DefaultNetworkRepository) LoadNodes(ctx context.Context) ([]*domain.NetworkNode, error) {
	var rows []models.NetworkNodeModel
	if err := r.DB.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	nodes := make([]*domain.NetworkNode, len(rows))
	for i := range rows {
		nodes[i] = mappers.ToDomainNetworkNode(&rows[i])
	}
	return nodes, nil
}

// SavePlacement inserts the node and bumps the stored subtree size of its
// placement ancestors in the same database transaction. The unique slot
// index rejects a second member racing for the same (parent, position).
func (r *DefaultNetworkRepository) SavePlacement(ctx context.Context, node *domain.NetworkNode, ancestorIDs []string) error {
	model := mappers.ToGORMNetworkNode(node)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.NetworkNodeModel{}).Where("member_id = ?", node.Member.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return domain.ErrMemberExists
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(ancestorIDs) == 0 {
			return nil
		}
		return tx.Model(&models.NetworkNodeModel{}).
			Where("member_id IN ?", ancestorIDs).
			Updates(map[string]interface{}{
				"subtree_size": gorm.Expr("subtree_size + 1"),
				"updated_at":   time.Now(),
			}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("slot %d under %s already taken: %w", node.Position, node.ParentID, err)
	}
	return err
}

func (r *DefaultNetworkRepository) UpdateMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus) error {
	res := r.DB.WithContext(ctx).
		Model(&models.NetworkNodeModel{}).
		Where("member_id = ?", memberID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
