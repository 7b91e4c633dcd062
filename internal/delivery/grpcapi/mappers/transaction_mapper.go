package mappers

import (
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
)

func ToPBTransaction(tx *domain.Transaction) *compensationpb.Transaction {
	if tx == nil {
		return nil
	}
	return &compensationpb.Transaction{
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
		OriginTransactionID: tx.OriginTransactionID,
		RuleID:              tx.RuleID,
		CounterpartyID:      tx.CounterpartyID,
		RejectReason:        tx.RejectReason,
		CreatedAt:           tx.CreatedAt,
		ProcessedAt:         tx.ProcessedAt,
	}
}

func ToPBTransactions(txs []*domain.Transaction) []*compensationpb.Transaction {
	out := make([]*compensationpb.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = ToPBTransaction(tx)
	}
	return out
}

func ToPBPagination(p walletdto.Pagination) *compensationpb.Pagination {
	return &compensationpb.Pagination{
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
		TotalItems:   p.TotalItems,
		ItemsPerPage: p.ItemsPerPage,
	}
}

func ToPBConservation(r *walletdto.ConservationReport) *compensationpb.ConservationResponse {
	return &compensationpb.ConservationResponse{
		Currency:            r.Currency,
		AccountsTotal:       r.AccountsTotal,
		SystemFund:          r.SystemFund,
		PassivePool:         r.PassivePool,
		ApprovedDeposits:    r.ApprovedDeposits,
		ApprovedWithdrawals: r.ApprovedWithdrawals,
		InFlight:            r.InFlight,
		Balanced:            r.Balanced,
	}
}
