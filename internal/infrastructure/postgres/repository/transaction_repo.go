package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var settledStatuses = []string{string(domain.StatusApproved), string(domain.StatusCompleted)}

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	return r.AppendBatch(ctx, []*domain.Transaction{tx})
}

func (r *DefaultTransactionRepository) AppendBatch(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]*models.TransactionModel, len(txs))
	for i, tx := range txs {
		rows[i] = mappers.ToGORMTransaction(tx)
	}
	err := r.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return db.Create(&rows).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate transaction or commission key", domain.ErrInvalidTransaction)
	}
	return err
}

func (r *DefaultTransactionRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TransactionStatus, processedAt time.Time, reason string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":        string(to),
			"processed_at":  processedAt,
			"reject_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is %s", domain.ErrInvalidStateTransition, id, current.Status)
}

func (r *DefaultTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.TransactionModel{})
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if filter.Currency != "" {
		query = query.Where("currency = ?", filter.Currency)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset(int((page - 1) * filter.Limit)).Limit(int(filter.Limit))
	}

	var rows []models.TransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find transactions: %w", err)
	}
	txs := make([]*domain.Transaction, len(rows))
	for i := range rows {
		txs[i] = mappers.ToDomainTransaction(&rows[i])
	}
	return txs, total, nil
}

func (r *DefaultTransactionRepository) Sums(ctx context.Context, memberID, currency string) (decimal.Decimal, decimal.Decimal, error) {
	var sums struct {
		Settled decimal.Decimal
		Frozen  decimal.Decimal
	}
	err := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select(`
			COALESCE(SUM(CASE WHEN status IN ? THEN amount ELSE 0 END), 0) AS settled,
			COALESCE(SUM(CASE
				WHEN kind = ? AND status = ? THEN ABS(amount)
				WHEN kind = ? AND qualifying AND status = ? AND NOT EXISTS (
					SELECT 1 FROM transactions f
					WHERE f.origin_transaction_id = transactions.id AND f.rule_id = ?
				) THEN amount
				ELSE 0 END), 0) AS frozen`,
			settledStatuses,
			string(domain.KindWithdrawal), string(domain.StatusPending),
			string(domain.KindDeposit), string(domain.StatusApproved), domain.RuleFunding).
		Where("member_id = ? AND currency = ?", memberID, currency).
		Scan(&sums).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return sums.Settled, sums.Frozen, nil
}

type currencySum struct {
	Currency string
	Total    decimal.Decimal
}

func (r *DefaultTransactionRepository) InvestmentByCurrency(ctx context.Context, memberID string) (map[string]decimal.Decimal, error) {
	var rows []currencySum
	err := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("currency, COALESCE(SUM(ABS(amount)), 0) AS total").
		Where("member_id = ? AND kind = ? AND status IN ?", memberID, string(domain.KindPurchase), settledStatuses).
		Group("currency").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Currency] = row.Total
	}
	return out, nil
}

func (r *DefaultTransactionRepository) CreditKeys(ctx context.Context, originID string) ([]domain.CreditKey, error) {
	var rows []struct {
		OriginTransactionID string
		MemberID            string
		RuleID              string
	}
	err := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("origin_transaction_id, member_id, rule_id").
		Where("origin_transaction_id = ? AND rule_id IS NOT NULL", originID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	keys := make([]domain.CreditKey, len(rows))
	for i, row := range rows {
		keys[i] = domain.CreditKey{
			OriginTransactionID: row.OriginTransactionID,
			MemberID:            row.MemberID,
			RuleID:              row.RuleID,
		}
	}
	return keys, nil
}

// UndistributedQualifying finds approved qualifying deposits and completed
// top-level purchases that no posting refers to yet, oldest first.
func (r *DefaultTransactionRepository) UndistributedQualifying(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	query := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where(`(kind = ? AND qualifying AND status = ?) OR (kind = ? AND status = ? AND origin_transaction_id IS NULL)`,
			string(domain.KindDeposit), string(domain.StatusApproved),
			string(domain.KindPurchase), string(domain.StatusCompleted)).
		Where(`NOT EXISTS (SELECT 1 FROM transactions c WHERE c.origin_transaction_id = transactions.id AND c.rule_id IS NOT NULL)`).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.TransactionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]*domain.Transaction, len(rows))
	for i := range rows {
		txs[i] = mappers.ToDomainTransaction(&rows[i])
	}
	return txs, nil
}

func (r *DefaultTransactionRepository) SettledTotals(ctx context.Context, currency string) (map[string]decimal.Decimal, error) {
	var rows []struct {
		MemberID string
		Total    decimal.Decimal
	}
	err := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("member_id, COALESCE(SUM(amount), 0) AS total").
		Where("currency = ? AND status IN ?", currency, settledStatuses).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.MemberID] = row.Total
	}
	return out, nil
}

func (r *DefaultTransactionRepository) ApprovedSum(ctx context.Context, kind domain.TransactionKind, currency string) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}
	err := r.DB.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("kind = ? AND currency = ? AND status = ?", string(kind), currency, string(domain.StatusApproved)).
		Scan(&sum).Error
	return sum.Total, err
}
