package grpcapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{domain.ErrMemberNotFound, codes.NotFound},
	{domain.ErrTransactionNotFound, codes.NotFound},
	{domain.ErrMemberExists, codes.AlreadyExists},
	{domain.ErrInvalidSponsor, codes.InvalidArgument},
	{domain.ErrInvalidAmount, codes.InvalidArgument},
	{domain.ErrInvalidIBAN, codes.InvalidArgument},
	{domain.ErrInvalidTransaction, codes.InvalidArgument},
	{domain.ErrUnsupportedCurrency, codes.InvalidArgument},
	{domain.ErrInsufficientFunds, codes.FailedPrecondition},
	{domain.ErrInvalidStateTransition, codes.FailedPrecondition},
	{domain.ErrNotQualifying, codes.FailedPrecondition},
	{domain.ErrNotBinaryPlan, codes.FailedPrecondition},
	{domain.ErrRateUnavailable, codes.Unavailable},
	{domain.ErrInvalidCommissionTable, codes.Internal},
	{domain.ErrInvalidCareerLevels, codes.Internal},
}

// ToStatus maps domain errors to gRPC status errors. Errors that already
// carry a status pass through.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// UnaryErrorInterceptor logs every call and converts handler errors with
// ToStatus.
func UnaryErrorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		err = ToStatus(err)
		st, _ := status.FromError(err)
		slog.Warn("grpc call failed",
			"method", info.FullMethod,
			"code", st.Code().String(),
			"error", st.Message(),
			"duration", time.Since(start))
		return nil, err
	}
	slog.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start))
	return resp, nil
}
