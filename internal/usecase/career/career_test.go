package career

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testTable(t *testing.T) *domain.CareerTable {
	t.Helper()
	table, err := domain.NewCareerTable([]domain.CareerLevel{
		{Rank: 1, Name: "tier-1", CommissionRate: d("2")},
		{Rank: 2, Name: "tier-2", MinInvestment: d("500"), MinDirectReferrals: 1, CommissionRate: d("3"), FlatBonus: d("10")},
		{Rank: 3, Name: "tier-3", MinInvestment: d("2000"), MinDirectReferrals: 2, CommissionRate: d("4"), FlatBonus: d("25"), RequiredDownlineRank: 2},
	})
	if err != nil {
		t.Fatalf("NewCareerTable() error: %v", err)
	}
	return table
}

type eurRates struct{}

func (eurRates) GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	if base == "EUR" && quote == "USD" {
		return d("1.25"), nil
	}
	return decimal.Zero, fmt.Errorf("no rate %s/%s", base, quote)
}
func (eurRates) GetName() string                    { return "eur" }
func (eurRates) IsHealthy(ctx context.Context) bool { return true }

type fixture struct {
	career  *DefaultCareerUsecase
	network *network.DefaultNetworkUsecase
	wallet  *wallet.DefaultWalletUsecase
	ranks   *memory.CareerStore
	events  *memory.EventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	txs := memory.NewTransactionStore()
	tree, err := network.NewDefaultNetworkUsecase(memory.NewNetworkStore(), nil, network.Config{Plan: domain.PlanBinary}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wallet.NewDefaultWalletUsecase(txs, eurRates{}, nil, wallet.Config{Currencies: []string{"USD", "EUR"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ranks := memory.NewCareerStore()
	events := memory.NewEventRecorder()
	uc := NewDefaultCareerUsecase(NewEvaluator(testTable(t)), ranks, txs, tree, w, eurRates{}, events, Config{BaseCurrency: "USD"}, nil)
	return &fixture{career: uc, network: tree, wallet: w, ranks: ranks, events: events}
}

func (f *fixture) place(t *testing.T, member, sponsor string) {
	t.Helper()
	if _, err := f.network.Place(context.Background(), member, sponsor, nil); err != nil {
		t.Fatalf("Place(%s) error: %v", member, err)
	}
}

func (f *fixture) invest(t *testing.T, member, amount, currency string) {
	t.Helper()
	ctx := context.Background()
	dep, err := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: member, Currency: currency, Amount: d(amount), Kind: domain.KindDeposit})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.wallet.Approve(ctx, dep.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: member, Currency: currency, Amount: d(amount), Kind: domain.KindPurchase}); err != nil {
		t.Fatal(err)
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator(testTable(t))
	tests := []struct {
		name  string
		stats domain.MemberStats
		want  int
	}{
		{"nothing", domain.MemberStats{}, 1},
		{"investment without referrals", domain.MemberStats{CumulativeInvestment: d("10000")}, 1},
		{"tier-2 exactly", domain.MemberStats{CumulativeInvestment: d("500"), DirectReferrals: 1}, 2},
		{"tier-3 without qualified downline", domain.MemberStats{CumulativeInvestment: d("5000"), DirectReferrals: 3, MaxDownlineRank: 1}, 2},
		{"tier-3", domain.MemberStats{CumulativeInvestment: d("2000"), DirectReferrals: 2, MaxDownlineRank: 2}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.stats); got.Rank != tt.want {
				t.Errorf("Evaluate() rank = %d, want %d", got.Rank, tt.want)
			}
		})
	}
}

func TestReevaluate_PromotesOncePaysBonus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t, "root", "")
	f.place(t, "x", "root")
	f.place(t, "y", "x")
	f.invest(t, "x", "600", "USD")

	event, err := f.career.Reevaluate(ctx, "x")
	if err != nil {
		t.Fatalf("Reevaluate() error: %v", err)
	}
	if event == nil || event.FromRank != 1 || event.ToRank != 2 || event.LevelName != "tier-2" {
		t.Fatalf("Reevaluate() = %+v, want promotion 1 -> 2", event)
	}

	again, err := f.career.Reevaluate(ctx, "x")
	if err != nil || again != nil {
		t.Errorf("second Reevaluate() = %+v, %v; want no promotion", again, err)
	}

	b, _ := f.wallet.Balance(ctx, "x", "USD")
	if !b.Balance.Equal(d("10")) {
		t.Errorf("x balance = %s, want the 10 flat bonus", b.Balance)
	}
	fund, _ := f.wallet.Balance(ctx, domain.SystemFundAccount, "USD")
	if !fund.Balance.Equal(d("-10")) {
		t.Errorf("system fund = %s, want -10", fund.Balance)
	}
	level, _ := f.career.Level(ctx, "x")
	if level.Rank != 2 {
		t.Errorf("Level(x) = %d, want 2", level.Rank)
	}
}

func TestReevaluate_NeverDemotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t, "root", "")
	f.place(t, "x", "root")
	if _, err := f.ranks.PromoteRank(ctx, "x", 3, time.Now()); err != nil {
		t.Fatal(err)
	}

	event, err := f.career.Reevaluate(ctx, "x")
	if err != nil || event != nil {
		t.Fatalf("Reevaluate() = %+v, %v; want nothing", event, err)
	}
	if level, _ := f.career.Level(ctx, "x"); level.Rank != 3 {
		t.Errorf("Level(x) = %d after reevaluation, want 3", level.Rank)
	}
}

func TestReevaluateChain_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t, "root", "")
	f.place(t, "s2", "root")
	f.place(t, "s1", "s2")
	f.place(t, "y", "s2")
	f.place(t, "x", "s1")
	f.invest(t, "s1", "500", "USD")
	f.invest(t, "s2", "1600", "EUR") // 2000 USD

	promotions, err := f.career.ReevaluateChain(ctx, "x", 7)
	if err != nil {
		t.Fatalf("ReevaluateChain() error: %v", err)
	}
	got := make([]string, len(promotions))
	for i, p := range promotions {
		got[i] = fmt.Sprintf("%s:%d", p.MemberID, p.ToRank)
	}
	if fmt.Sprint(got) != "[s1:2 s2:3]" {
		t.Errorf("promotions = %v, want [s1:2 s2:3]", got)
	}

	// s2 jumped two ranks and receives both bonuses.
	b, _ := f.wallet.Balance(ctx, "s2", "USD")
	if !b.Balance.Equal(d("35")) {
		t.Errorf("s2 bonus balance = %s, want 35", b.Balance)
	}
}

func TestLevel_UnknownMember(t *testing.T) {
	f := newFixture(t)
	if _, err := f.career.Level(context.Background(), "ghost"); err == nil {
		t.Error("Level(ghost) should fail")
	}
}
