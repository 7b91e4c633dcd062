package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCareerRepository struct {
	DB *gorm.DB
}

func NewDefaultCareerRepository(db *gorm.DB) *DefaultCareerRepository {
	return &DefaultCareerRepository{DB: db}
}

// GetRank returns 0 for a member that was never evaluated.
func (r *DefaultCareerRepository) GetRank(ctx context.Context, memberID string) (int, error) {
	var model models.CareerLevelModel
	err := r.DB.WithContext(ctx).Where("member_id = ?", memberID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.Rank, nil
}

// PromoteRank upserts the rank; the conflict clause only updates a lower
// stored rank, so concurrent promotions never move a member down.
func (r *DefaultCareerRepository) PromoteRank(ctx context.Context, memberID string, rank int, at time.Time) (bool, error) {
	model := models.CareerLevelModel{MemberID: memberID, Rank: rank, PromotedAt: at}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rank", "promoted_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "career_levels.rank < excluded.rank"},
		}},
	}).Create(&model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultCareerRepository) LoadRanks(ctx context.Context) (map[string]int, error) {
	var rows []models.CareerLevelModel
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	ranks := make(map[string]int, len(rows))
	for _, row := range rows {
		ranks[row.MemberID] = row.Rank
	}
	return ranks, nil
}
