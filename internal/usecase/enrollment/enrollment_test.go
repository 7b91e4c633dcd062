package enrollment

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
	"github.com/shopspring/decimal"
)

func newTestEnrollment(t *testing.T) (*DefaultEnrollmentUsecase, *network.DefaultNetworkUsecase, *memory.CareerStore) {
	t.Helper()
	txs := memory.NewTransactionStore()
	ranks := memory.NewCareerStore()
	tree, err := network.NewDefaultNetworkUsecase(memory.NewNetworkStore(), nil, network.Config{Plan: domain.PlanBinary}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wallet.NewDefaultWalletUsecase(txs, nil, nil, wallet.Config{Currencies: []string{"USD"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	table, err := domain.NewCareerTable([]domain.CareerLevel{
		{Rank: 1, Name: "starter"},
		{Rank: 2, Name: "builder", MinDirectReferrals: 2, CommissionRate: decimal.NewFromInt(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := career.NewDefaultCareerUsecase(career.NewEvaluator(table), ranks, txs, tree, w, nil, nil, career.Config{BaseCurrency: "USD"}, nil)
	return NewDefaultEnrollmentUsecase(tree, c, 7), tree, ranks
}

func TestEnroll_PromotesSponsorOnReferralCount(t *testing.T) {
	uc, _, ranks := newTestEnrollment(t)
	ctx := context.Background()

	for _, m := range [][2]string{{"root", ""}, {"a", "root"}, {"b", "root"}} {
		if _, err := uc.Enroll(ctx, m[0], m[1], nil); err != nil {
			t.Fatalf("Enroll(%s) error: %v", m[0], err)
		}
	}
	if rank, _ := ranks.GetRank(ctx, "root"); rank != 2 {
		t.Errorf("root rank = %d after two referrals, want 2", rank)
	}
}

func TestHandleRegistration(t *testing.T) {
	uc, tree, _ := newTestEnrollment(t)
	ctx := context.Background()

	events := []domain.MemberRegisteredEvent{
		{MemberID: "root"},
		{MemberID: "a", SponsorID: "root", Side: "right"},
		{MemberID: "a", SponsorID: "root", Side: "right"}, // redelivery
		{MemberID: "b", SponsorID: "root", Side: "sideways"},
	}
	for _, e := range events {
		if err := uc.HandleRegistration(ctx, e); err != nil {
			t.Fatalf("HandleRegistration(%+v) error: %v", e, err)
		}
	}
	if tree.Count() != 3 {
		t.Errorf("Count() = %d, want 3", tree.Count())
	}
	node, _ := tree.GetNode(ctx, "a")
	if node.Position != int(domain.SideRight) {
		t.Errorf("a placed at position %d, want right", node.Position)
	}

	err := uc.HandleRegistration(ctx, domain.MemberRegisteredEvent{MemberID: "c", SponsorID: "ghost"})
	if !errors.Is(err, domain.ErrInvalidSponsor) {
		t.Errorf("HandleRegistration(unknown sponsor) error = %v, want ErrInvalidSponsor", err)
	}
}
