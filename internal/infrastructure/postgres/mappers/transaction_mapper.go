package mappers

import (
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:                  model.ID,
		Reference:           model.Reference,
		MemberID:            model.MemberID,
		Currency:            model.Currency,
		Amount:              model.Amount,
		Kind:                domain.TransactionKind(model.Kind),
		Status:              domain.TransactionStatus(model.Status),
		Qualifying:          model.Qualifying,
		IBAN:                model.IBAN,
		Description:         model.Description,
		OriginTransactionID: fromNullable(model.OriginTransactionID),
		RuleID:              fromNullable(model.RuleID),
		CounterpartyID:      model.CounterpartyID,
		RejectReason:        model.RejectReason,
		CreatedAt:           model.CreatedAt,
		ProcessedAt:         model.ProcessedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:                  tx.ID,
		Reference:           tx.Reference,
		MemberID:            tx.MemberID,
		Currency:            tx.Currency,
		Amount:              tx.Amount,
		Kind:                string(tx.Kind),
		Status:              string(tx.Status),
		Qualifying:          tx.Qualifying,
		IBAN:                tx.IBAN,
		Description:         tx.Description,
		OriginTransactionID: toNullable(tx.OriginTransactionID),
		RuleID:              toNullable(tx.RuleID),
		CounterpartyID:      tx.CounterpartyID,
		RejectReason:        tx.RejectReason,
		CreatedAt:           tx.CreatedAt,
		ProcessedAt:         tx.ProcessedAt,
	}
}

// Empty keys are stored as NULL so they stay out of the unique indexes.
func toNullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
