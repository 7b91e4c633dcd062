package domain

import (
	"context"
	"time"
)

type MemberStatus string

const (
	MemberActive      MemberStatus = "ACTIVE"
	MemberDeactivated MemberStatus = "DEACTIVATED"
	// MemberUnknown marks an upline reference that could not be resolved.
	MemberUnknown MemberStatus = "UNKNOWN"
)

type Member struct {
	ID        string
	SponsorID string
	Status    MemberStatus
	JoinedAt  time.Time
}

func (m Member) IsActive() bool {
	return m.Status == MemberActive
}

// MemberDirectory is the external registry of members. It is authoritative
// for existence and active status.
type MemberDirectory interface {
	Exists(ctx context.Context, memberID string) (bool, error)
	IsActive(ctx context.Context, memberID string) (bool, error)
}
