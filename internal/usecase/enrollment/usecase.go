package enrollment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
)

type EnrollmentUsecase interface {
	Enroll(ctx context.Context, memberID, sponsorID string, side *domain.Side) (*domain.NetworkNode, error)
	HandleRegistration(ctx context.Context, event domain.MemberRegisteredEvent) error
}

// DefaultEnrollmentUsecase places new members and re-evaluates the sponsor
// chain, since a new direct referral can unlock a level.
type DefaultEnrollmentUsecase struct {
	network  network.NetworkUsecase
	career   career.CareerUsecase
	maxDepth int
}

func NewDefaultEnrollmentUsecase(networkUc network.NetworkUsecase, careerUc career.CareerUsecase, maxDepth int) *DefaultEnrollmentUsecase {
	return &DefaultEnrollmentUsecase{
		network:  networkUc,
		career:   careerUc,
		maxDepth: maxDepth,
	}
}

func (uc *DefaultEnrollmentUsecase) Enroll(ctx context.Context, memberID, sponsorID string, side *domain.Side) (*domain.NetworkNode, error) {
	node, err := uc.network.Place(ctx, memberID, sponsorID, side)
	if err != nil {
		return nil, err
	}
	if sponsorID != "" && uc.career != nil {
		if _, err := uc.career.ReevaluateChain(ctx, sponsorID, uc.maxDepth); err != nil {
			slog.Error("career reevaluation after enrollment failed", "member_id", memberID, "sponsor_id", sponsorID, "error", err.Error())
		}
	}
	return node, nil
}

// HandleRegistration enrolls a member announced on the member-events stream.
// A member already placed is not an error, so redelivered events are safe.
func (uc *DefaultEnrollmentUsecase) HandleRegistration(ctx context.Context, event domain.MemberRegisteredEvent) error {
	side, err := domain.ParseSide(event.Side)
	if err != nil {
		slog.Warn("ignoring invalid side in registration", "member_id", event.MemberID, "side", event.Side)
		side = nil
	}
	_, err = uc.Enroll(ctx, event.MemberID, event.SponsorID, side)
	if errors.Is(err, domain.ErrMemberExists) {
		return nil
	}
	return err
}
