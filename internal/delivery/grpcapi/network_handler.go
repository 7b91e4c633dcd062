package grpcapi

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/enrollment"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type NetworkHandler struct {
	networkUc    network.NetworkUsecase
	enrollmentUc enrollment.EnrollmentUsecase
	compensationpb.UnimplementedNetworkServiceServer
}

func NewNetworkHandler(networkUc network.NetworkUsecase, enrollmentUc enrollment.EnrollmentUsecase) *NetworkHandler {
	return &NetworkHandler{
		networkUc:    networkUc,
		enrollmentUc: enrollmentUc,
	}
}

func parseSide(value string) (*domain.Side, error) {
	side, err := domain.ParseSide(value)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return side, nil
}

func (h *NetworkHandler) Enroll(ctx context.Context, r *compensationpb.EnrollRequest) (*compensationpb.NodeResponse, error) {
	side, err := parseSide(r.Side)
	if err != nil {
		return nil, err
	}
	node, err := h.enrollmentUc.Enroll(ctx, r.MemberID, r.SponsorID, side)
	if err != nil {
		return nil, err
	}
	return &compensationpb.NodeResponse{Node: mappers.ToPBNode(node)}, nil
}

func (h *NetworkHandler) GetNode(ctx context.Context, r *compensationpb.MemberStatusRequest) (*compensationpb.NodeResponse, error) {
	node, err := h.networkUc.GetNode(ctx, r.MemberID)
	if err != nil {
		return nil, err
	}
	return &compensationpb.NodeResponse{Node: mappers.ToPBNode(node)}, nil
}

func (h *NetworkHandler) GetUpline(ctx context.Context, r *compensationpb.GetUplineRequest) (*compensationpb.UplineResponse, error) {
	upline, err := h.networkUc.Upline(ctx, r.MemberID, r.MaxDepth)
	if err != nil {
		return nil, err
	}
	members := make([]*compensationpb.Member, len(upline))
	for i, m := range upline {
		members[i] = mappers.ToPBMember(m)
	}
	return &compensationpb.UplineResponse{Members: members}, nil
}

func (h *NetworkHandler) GetSubtreeSize(ctx context.Context, r *compensationpb.GetSubtreeSizeRequest) (*compensationpb.SubtreeSizeResponse, error) {
	side, err := parseSide(r.Side)
	if err != nil {
		return nil, err
	}
	size, err := h.networkUc.SubtreeSize(ctx, r.MemberID, side)
	if err != nil {
		return nil, err
	}
	return &compensationpb.SubtreeSizeResponse{Size: size}, nil
}

func (h *NetworkHandler) DeactivateMember(ctx context.Context, r *compensationpb.MemberStatusRequest) (*compensationpb.MemberStatusResponse, error) {
	if err := h.networkUc.Deactivate(ctx, r.MemberID); err != nil {
		return nil, err
	}
	return &compensationpb.MemberStatusResponse{MemberID: r.MemberID, Status: string(domain.MemberDeactivated)}, nil
}

func (h *NetworkHandler) ReactivateMember(ctx context.Context, r *compensationpb.MemberStatusRequest) (*compensationpb.MemberStatusResponse, error) {
	if err := h.networkUc.Reactivate(ctx, r.MemberID); err != nil {
		return nil, err
	}
	return &compensationpb.MemberStatusResponse{MemberID: r.MemberID, Status: string(domain.MemberActive)}, nil
}

func (h *NetworkHandler) GetLegBalance(ctx context.Context, r *compensationpb.GetLegBalanceRequest) (*compensationpb.LegBalanceResponse, error) {
	legs, err := h.networkUc.LegBalance(ctx, r.MemberID)
	if err != nil {
		return nil, err
	}
	return &compensationpb.LegBalanceResponse{
		Left:       legs.Left,
		Right:      legs.Right,
		Ratio:      legs.Ratio,
		IsBalanced: legs.IsBalanced,
	}, nil
}

func (h *NetworkHandler) GetRecommendation(ctx context.Context, r *compensationpb.GetRecommendationRequest) (*compensationpb.RecommendationResponse, error) {
	side, err := h.networkUc.Recommendation(ctx, r.MemberID)
	if err != nil {
		return nil, fmt.Errorf("recommendation for %s: %w", r.MemberID, err)
	}
	return &compensationpb.RecommendationResponse{Side: side.String()}, nil
}
