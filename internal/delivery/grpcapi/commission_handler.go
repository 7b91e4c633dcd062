package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/commission"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
)

type CommissionHandler struct {
	commissionUc commission.CommissionUsecase
	careerUc     career.CareerUsecase
	compensationpb.UnimplementedCommissionServiceServer
}

func NewCommissionHandler(commissionUc commission.CommissionUsecase, careerUc career.CareerUsecase) *CommissionHandler {
	return &CommissionHandler{
		commissionUc: commissionUc,
		careerUc:     careerUc,
	}
}

func (h *CommissionHandler) Distribute(ctx context.Context, r *compensationpb.DistributeRequest) (*compensationpb.DistributeResponse, error) {
	credits, err := h.commissionUc.Distribute(ctx, r.TransactionID)
	partial := errors.Is(err, domain.ErrDistributionPartialFailure)
	if err != nil && !partial {
		return nil, err
	}
	return &compensationpb.DistributeResponse{
		Credits: mappers.ToPBCredits(credits),
		Partial: partial,
	}, nil
}

func (h *CommissionHandler) Simulate(ctx context.Context, r *compensationpb.SimulateRequest) (*compensationpb.SimulateResponse, error) {
	out, err := h.commissionUc.Simulate(&commissiondto.SimulationInput{
		Amount:        r.Amount,
		PayerStats:    mappers.ToDomainStats(r.PayerStats),
		UplineRanks:   r.UplineRanks,
		InactiveTiers: r.InactiveTiers,
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToPBSimulation(out), nil
}

func (h *CommissionHandler) GetCareerLevel(ctx context.Context, r *compensationpb.GetCareerLevelRequest) (*compensationpb.CareerLevelResponse, error) {
	level, err := h.careerUc.Level(ctx, r.MemberID)
	if err != nil {
		return nil, err
	}
	stats, err := h.careerUc.Stats(ctx, r.MemberID)
	if err != nil {
		return nil, err
	}
	return &compensationpb.CareerLevelResponse{
		MemberID: r.MemberID,
		Level:    mappers.ToPBCareerLevel(level),
		Stats:    mappers.ToPBStats(stats),
	}, nil
}

func (h *CommissionHandler) PayoutPassivePool(ctx context.Context, r *compensationpb.PayoutPassivePoolRequest) (*compensationpb.PayoutPassivePoolResponse, error) {
	credits, err := h.commissionUc.PayoutPassivePool(ctx, r.Currency)
	if err != nil {
		return nil, err
	}
	return &compensationpb.PayoutPassivePoolResponse{Credits: mappers.ToPBCredits(credits)}, nil
}

func (h *CommissionHandler) Reconcile(ctx context.Context, r *compensationpb.ReconcileRequest) (*compensationpb.ReconcileResponse, error) {
	done, err := h.commissionUc.Reconcile(ctx, r.Limit)
	if err != nil {
		return nil, err
	}
	return &compensationpb.ReconcileResponse{Distributed: done}, nil
}
