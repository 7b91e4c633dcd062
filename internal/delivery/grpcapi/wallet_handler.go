package grpcapi

import (
	"context"

	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
)

type WalletHandler struct {
	walletUc wallet.WalletUsecase
	compensationpb.UnimplementedWalletServiceServer
}

func NewWalletHandler(walletUc wallet.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUc: walletUc}
}

func (h *WalletHandler) PostTransaction(ctx context.Context, r *compensationpb.PostTransactionRequest) (*compensationpb.TransactionResponse, error) {
	tx, err := h.walletUc.Post(ctx, &walletdto.PostInput{
		MemberID:    r.MemberID,
		Currency:    r.Currency,
		Amount:      r.Amount,
		Kind:        domain.TransactionKind(r.Kind),
		Qualifying:  r.Qualifying,
		IBAN:        r.IBAN,
		Description: r.Description,
	})
	if err != nil {
		return nil, err
	}
	return &compensationpb.TransactionResponse{Transaction: mappers.ToPBTransaction(tx)}, nil
}

func (h *WalletHandler) ApproveTransaction(ctx context.Context, r *compensationpb.ApproveTransactionRequest) (*compensationpb.TransactionResponse, error) {
	tx, err := h.walletUc.Approve(ctx, r.TransactionID)
	if err != nil {
		return nil, err
	}
	return &compensationpb.TransactionResponse{Transaction: mappers.ToPBTransaction(tx)}, nil
}

func (h *WalletHandler) RejectTransaction(ctx context.Context, r *compensationpb.RejectTransactionRequest) (*compensationpb.TransactionResponse, error) {
	tx, err := h.walletUc.Reject(ctx, r.TransactionID, r.Reason)
	if err != nil {
		return nil, err
	}
	return &compensationpb.TransactionResponse{Transaction: mappers.ToPBTransaction(tx)}, nil
}

func (h *WalletHandler) GetTransaction(ctx context.Context, r *compensationpb.GetTransactionRequest) (*compensationpb.TransactionResponse, error) {
	tx, err := h.walletUc.GetTransaction(ctx, r.TransactionID)
	if err != nil {
		return nil, err
	}
	return &compensationpb.TransactionResponse{Transaction: mappers.ToPBTransaction(tx)}, nil
}

func (h *WalletHandler) Transfer(ctx context.Context, r *compensationpb.TransferRequest) (*compensationpb.TransferResponse, error) {
	out, err := h.walletUc.Transfer(ctx, &walletdto.TransferInput{
		FromID:      r.FromID,
		ToID:        r.ToID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
	})
	if err != nil {
		return nil, err
	}
	return &compensationpb.TransferResponse{
		Debit:  mappers.ToPBTransaction(out.Debit),
		Credit: mappers.ToPBTransaction(out.Credit),
	}, nil
}

func (h *WalletHandler) GetBalance(ctx context.Context, r *compensationpb.GetBalanceRequest) (*compensationpb.BalanceResponse, error) {
	balance, err := h.walletUc.Balance(ctx, r.MemberID, r.Currency)
	if err != nil {
		return nil, err
	}
	return &compensationpb.BalanceResponse{
		MemberID:  balance.MemberID,
		Currency:  balance.Currency,
		Balance:   balance.Balance,
		Available: balance.Available,
		Frozen:    balance.Frozen,
	}, nil
}

func (h *WalletHandler) ListTransactions(ctx context.Context, r *compensationpb.ListTransactionsRequest) (*compensationpb.ListTransactionsResponse, error) {
	out, err := h.walletUc.ListTransactions(ctx, &walletdto.ListTransactionsInput{
		MemberID: r.MemberID,
		Status:   domain.TransactionStatus(r.Status),
		Kind:     domain.TransactionKind(r.Kind),
		Currency: r.Currency,
		Page:     r.Page,
		Limit:    r.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &compensationpb.ListTransactionsResponse{
		Transactions: mappers.ToPBTransactions(out.Transactions),
		Pagination:   mappers.ToPBPagination(out.Pagination),
	}, nil
}

func (h *WalletHandler) GetConservation(ctx context.Context, r *compensationpb.GetConservationRequest) (*compensationpb.ConservationResponse, error) {
	report, err := h.walletUc.Conservation(ctx, r.Currency)
	if err != nil {
		return nil, err
	}
	return mappers.ToPBConservation(report), nil
}
