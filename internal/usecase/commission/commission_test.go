package commission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	engine  *DefaultCommissionUsecase
	career  *career.DefaultCareerUsecase
	network *network.DefaultNetworkUsecase
	wallet  *wallet.DefaultWalletUsecase
	txs     *memory.TransactionStore
	ranks   *memory.CareerStore
	distLog *memory.DistributionLog
}

func testCommissionTable(t *testing.T) *domain.CommissionTable {
	t.Helper()
	table, err := domain.NewCommissionTable([]domain.CommissionRule{
		{ID: "career", Kind: domain.RuleCareer, Rate: d("10")},
		{ID: "passive", Kind: domain.RulePassive, Rate: d("5")},
		{ID: "system", Kind: domain.RuleSystemFund, Rate: d("85")},
	})
	if err != nil {
		t.Fatalf("NewCommissionTable() error: %v", err)
	}
	return table
}

func testCareerTable(t *testing.T) *domain.CareerTable {
	t.Helper()
	table, err := domain.NewCareerTable([]domain.CareerLevel{
		{Rank: 1, Name: "tier-1", CommissionRate: d("2")},
		{Rank: 2, Name: "tier-2", MinInvestment: d("500"), MinDirectReferrals: 1, CommissionRate: d("3"), PassiveRate: d("1")},
		{Rank: 3, Name: "tier-3", MinInvestment: d("2000"), MinDirectReferrals: 2, CommissionRate: d("4"), PassiveRate: d("2"), RequiredDownlineRank: 2},
	})
	if err != nil {
		t.Fatalf("NewCareerTable() error: %v", err)
	}
	return table
}

func newFixture(t *testing.T, table *domain.CommissionTable, cfg Config, hooked bool) *fixture {
	t.Helper()
	txs := memory.NewTransactionStore()
	ranks := memory.NewCareerStore()
	distLog := memory.NewDistributionLog()

	tree, err := network.NewDefaultNetworkUsecase(memory.NewNetworkStore(), nil, network.Config{Plan: domain.PlanBinary}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wallet.NewDefaultWalletUsecase(txs, nil, nil, wallet.Config{Currencies: []string{"USD"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := career.NewDefaultCareerUsecase(career.NewEvaluator(testCareerTable(t)), ranks, txs, tree, w, nil, nil, career.Config{BaseCurrency: "USD"}, nil)
	engine := NewDefaultCommissionUsecase(table, txs, tree, c, w, distLog, nil, cfg, nil)
	if hooked {
		w.RegisterSettlementHook(engine.HandleApproved)
	}
	return &fixture{engine: engine, career: c, network: tree, wallet: w, txs: txs, ranks: ranks, distLog: distLog}
}

// exampleFixture builds the upline X -> S1 (tier-2) -> S2 (tier-3).
func exampleFixture(t *testing.T, hooked bool) *fixture {
	t.Helper()
	f := newFixture(t, testCommissionTable(t), Config{MaxDepth: 7, Precision: 2}, hooked)
	ctx := context.Background()
	for _, p := range [][2]string{{"s2", ""}, {"s1", "s2"}, {"x", "s1"}} {
		if _, err := f.network.Place(ctx, p[0], p[1], nil); err != nil {
			t.Fatal(err)
		}
	}
	f.ranks.PromoteRank(ctx, "s1", 2, time.Now())
	f.ranks.PromoteRank(ctx, "s2", 3, time.Now())
	return f
}

func (f *fixture) deposit(t *testing.T, member, amount string, qualifying bool) *domain.Transaction {
	t.Helper()
	ctx := context.Background()
	tx, err := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: member, Currency: "USD", Amount: d(amount), Kind: domain.KindDeposit, Qualifying: qualifying})
	if err != nil {
		t.Fatal(err)
	}
	approved, err := f.wallet.Approve(ctx, tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	return approved
}

func (f *fixture) balance(t *testing.T, member string) decimal.Decimal {
	t.Helper()
	b, err := f.wallet.Balance(context.Background(), member, "USD")
	if err != nil {
		t.Fatal(err)
	}
	return b.Balance
}

func (f *fixture) assertBalances(t *testing.T, want map[string]string) {
	t.Helper()
	for member, amount := range want {
		if got := f.balance(t, member); !got.Equal(d(amount)) {
			t.Errorf("balance(%s) = %s, want %s", member, got, amount)
		}
	}
}

func (f *fixture) assertConserved(t *testing.T) {
	t.Helper()
	report, err := f.wallet.Conservation(context.Background(), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !report.Balanced {
		t.Errorf("money not conserved: %+v", report)
	}
}

func TestDistribute_ExampleScenario(t *testing.T) {
	f := exampleFixture(t, true)
	f.deposit(t, "x", "1000", true)

	f.assertBalances(t, map[string]string{
		"s1":                      "30",
		"s2":                      "40",
		domain.PassivePoolAccount: "50",
		domain.SystemFundAccount:  "880",
		"x":                       "0",
	})
	f.assertConserved(t)

	stats, err := f.career.Stats(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if !stats.CumulativeInvestment.Equal(d("1000")) {
		t.Errorf("x investment = %s, want 1000", stats.CumulativeInvestment)
	}
}

func TestDistribute_Idempotent(t *testing.T) {
	f := exampleFixture(t, true)
	tx := f.deposit(t, "x", "1000", true)

	for i := 0; i < 3; i++ {
		credits, err := f.engine.Distribute(context.Background(), tx.ID)
		if err != nil {
			t.Fatalf("Distribute() run %d error: %v", i, err)
		}
		if len(credits) != 0 {
			t.Errorf("Distribute() run %d posted %d credits", i, len(credits))
		}
	}
	f.assertBalances(t, map[string]string{"s1": "30", "s2": "40", domain.SystemFundAccount: "880"})
}

func TestDistribute_DirectCallReturnsCredits(t *testing.T) {
	f := exampleFixture(t, false)
	tx := f.deposit(t, "x", "1000", true)

	credits, err := f.engine.Distribute(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("Distribute() error: %v", err)
	}
	sum := decimal.Zero
	byMember := make(map[string]decimal.Decimal)
	for _, c := range credits {
		if c.TransactionID == "" || c.OriginTransactionID != tx.ID {
			t.Errorf("credit %+v is not linked to its ledger entry", c)
		}
		sum = sum.Add(c.Amount)
		byMember[c.BeneficiaryID] = byMember[c.BeneficiaryID].Add(c.Amount)
	}
	if !sum.Equal(d("1000")) {
		t.Errorf("sum of credits = %s, want 1000", sum)
	}
	if !byMember["s1"].Equal(d("30")) || !byMember["s2"].Equal(d("40")) {
		t.Errorf("credits = %v", byMember)
	}
}

func TestDistribute_DeactivatedAncestorRedirected(t *testing.T) {
	f := exampleFixture(t, false)
	ctx := context.Background()
	if err := f.network.Deactivate(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	tx := f.deposit(t, "x", "1000", true)

	credits, err := f.engine.Distribute(ctx, tx.ID)
	if !errors.Is(err, domain.ErrDistributionPartialFailure) {
		t.Fatalf("Distribute() error = %v, want ErrDistributionPartialFailure", err)
	}
	if len(credits) == 0 {
		t.Fatal("partial distribution should still return its credits")
	}
	f.assertBalances(t, map[string]string{
		"s1":                     "0",
		"s2":                     "40",
		domain.SystemFundAccount: "910",
	})
	f.assertConserved(t)

	entries := f.distLog.Entries()
	if len(entries) != 1 || entries[0].MemberID != "s1" || !entries[0].RedirectedAmount.Equal(d("30")) {
		t.Errorf("distribution log = %+v, want one 30 redirect for s1", entries)
	}
}

func TestDistribute_UnresolvableAncestor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewNetworkStore()
	root := domain.NewNetworkNode(domain.Member{ID: "root", Status: domain.MemberActive}, "", 0, 1, 2)
	orphan := domain.NewNetworkNode(domain.Member{ID: "x", SponsorID: "purged", Status: domain.MemberActive}, "root", 0, 2, 2)
	store.SavePlacement(ctx, root, nil)
	store.SavePlacement(ctx, orphan, []string{"root"})

	f := newFixture(t, testCommissionTable(t), Config{MaxDepth: 7, Precision: 2}, false)
	tree, _ := network.NewDefaultNetworkUsecase(store, nil, network.Config{Plan: domain.PlanBinary}, nil)
	if err := tree.Load(ctx); err != nil {
		t.Fatal(err)
	}
	f.engine.network = tree
	tx := f.deposit(t, "x", "100", true)

	_, err := f.engine.Distribute(ctx, tx.ID)
	if !errors.Is(err, domain.ErrDistributionPartialFailure) {
		t.Fatalf("Distribute() error = %v, want ErrDistributionPartialFailure", err)
	}
	f.assertBalances(t, map[string]string{
		domain.PassivePoolAccount: "5",
		domain.SystemFundAccount:  "95",
	})
}

func TestDistribute_NotQualifying(t *testing.T) {
	f := exampleFixture(t, false)
	ctx := context.Background()

	plain := f.deposit(t, "x", "100", false)
	if _, err := f.engine.Distribute(ctx, plain.ID); !errors.Is(err, domain.ErrNotQualifying) {
		t.Errorf("Distribute(plain deposit) error = %v, want ErrNotQualifying", err)
	}
	pending, _ := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: "x", Currency: "USD", Amount: d("100"), Kind: domain.KindDeposit, Qualifying: true})
	if _, err := f.engine.Distribute(ctx, pending.ID); !errors.Is(err, domain.ErrNotQualifying) {
		t.Errorf("Distribute(pending deposit) error = %v, want ErrNotQualifying", err)
	}
	if _, err := f.engine.Distribute(ctx, "missing"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Distribute(missing) error = %v, want ErrTransactionNotFound", err)
	}
}

func TestDistribute_PurchaseThroughLedgerHook(t *testing.T) {
	f := exampleFixture(t, true)
	ctx := context.Background()
	f.deposit(t, "x", "200", false)

	if _, err := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: "x", Currency: "USD", Amount: d("100"), Kind: domain.KindPurchase}); err != nil {
		t.Fatal(err)
	}
	f.assertBalances(t, map[string]string{
		"x":                       "100",
		"s1":                      "3",
		"s2":                      "4",
		domain.PassivePoolAccount: "5",
		domain.SystemFundAccount:  "88",
	})
	f.assertConserved(t)
}

func TestDistribute_InjectedFailureThenReconcile(t *testing.T) {
	f := exampleFixture(t, false)
	ctx := context.Background()
	tx := f.deposit(t, "x", "1000", true)

	f.txs.FailAfter = 2
	if _, err := f.engine.Distribute(ctx, tx.ID); !errors.Is(err, memory.ErrInjected) {
		t.Fatalf("Distribute() error = %v, want injected failure", err)
	}
	f.assertBalances(t, map[string]string{"x": "1000", "s1": "0", domain.SystemFundAccount: "0"})

	f.txs.FailAfter = 0
	n, err := f.engine.Reconcile(ctx, 10)
	if err != nil || n != 1 {
		t.Fatalf("Reconcile() = %d, %v; want 1", n, err)
	}
	f.assertBalances(t, map[string]string{"x": "0", "s1": "30", "s2": "40"})
	f.assertConserved(t)

	if n, _ := f.engine.Reconcile(ctx, 10); n != 0 {
		t.Errorf("second Reconcile() distributed %d", n)
	}
}

func TestDistribute_WithdrawalBeforeDistributionCannotSpendInvestment(t *testing.T) {
	f := exampleFixture(t, false)
	ctx := context.Background()
	tx := f.deposit(t, "x", "1000", true)

	_, err := f.wallet.Post(ctx, &walletdto.PostInput{MemberID: "x", Currency: "USD", Amount: d("1000"), Kind: domain.KindWithdrawal})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("withdrawal before distribution error = %v, want ErrInsufficientFunds", err)
	}

	n, err := f.engine.Reconcile(ctx, 10)
	if err != nil || n != 1 {
		t.Fatalf("Reconcile() = %d, %v, want 1", n, err)
	}
	keys, _ := f.txs.CreditKeys(ctx, tx.ID)
	if len(keys) == 0 {
		t.Error("deposit was not distributed")
	}
	f.assertBalances(t, map[string]string{"x": "0"})
	f.assertConserved(t)
}

func TestDistribute_PromotesPayerAfterPosting(t *testing.T) {
	f := exampleFixture(t, true)
	ctx := context.Background()
	if _, err := f.network.Place(ctx, "y", "x", nil); err != nil {
		t.Fatal(err)
	}
	f.deposit(t, "x", "600", true)

	level, err := f.career.Level(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if level.Rank != 2 {
		t.Errorf("Level(x) = %d after investing 600 with one referral, want 2", level.Rank)
	}
	// Shares use the levels held when the distribution ran.
	f.assertBalances(t, map[string]string{"s1": "18", "s2": "24"})
}

func TestPayoutPassivePool(t *testing.T) {
	f := exampleFixture(t, true)
	ctx := context.Background()
	f.deposit(t, "x", "1000", true)

	credits, err := f.engine.PayoutPassivePool(ctx, "USD")
	if err != nil {
		t.Fatalf("PayoutPassivePool() error: %v", err)
	}
	if len(credits) != 2 {
		t.Fatalf("PayoutPassivePool() paid %d members, want 2", len(credits))
	}
	f.assertBalances(t, map[string]string{
		"s1":                      "46.66",
		"s2":                      "73.33",
		domain.PassivePoolAccount: "0.01",
	})
	f.assertConserved(t)
}

func TestPayoutPassivePool_ConcurrentRunsPayOnce(t *testing.T) {
	f := exampleFixture(t, true)
	ctx := context.Background()
	f.deposit(t, "x", "1000", true)

	var wg sync.WaitGroup
	var mu sync.Mutex
	paid := decimal.Zero
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			credits, err := f.engine.PayoutPassivePool(ctx, "USD")
			if err != nil {
				t.Errorf("PayoutPassivePool() error: %v", err)
				return
			}
			mu.Lock()
			for _, c := range credits {
				paid = paid.Add(c.Amount)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if !paid.Equal(d("49.99")) {
		t.Errorf("concurrent payouts paid %s, want 49.99", paid)
	}
	f.assertBalances(t, map[string]string{domain.PassivePoolAccount: "0.01"})
	f.assertConserved(t)
}

func TestSimulate_ExampleAndRounding(t *testing.T) {
	f := newFixture(t, testCommissionTable(t), Config{MaxDepth: 7, Precision: 2}, false)

	out, err := f.engine.Simulate(&commissiondto.SimulationInput{Amount: d("1000"), UplineRanks: []int{2, 3}})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if len(out.Shares) != 2 || !out.Shares[0].Amount.Equal(d("30")) || !out.Shares[1].Amount.Equal(d("40")) {
		t.Errorf("shares = %+v, want 30 and 40", out.Shares)
	}
	if !out.PassivePool.Equal(d("50")) || !out.SystemFund.Equal(d("880")) {
		t.Errorf("pool %s system %s, want 50 and 880", out.PassivePool, out.SystemFund)
	}

	out, _ = f.engine.Simulate(&commissiondto.SimulationInput{Amount: d("10.01"), UplineRanks: []int{2, 3}})
	if !out.Shares[0].Amount.Equal(d("0.30")) || !out.Shares[1].Amount.Equal(d("0.40")) {
		t.Errorf("truncated shares = %+v, want 0.30 and 0.40", out.Shares)
	}
	if !out.PassivePool.Equal(d("0.50")) || !out.SystemFund.Equal(d("8.81")) {
		t.Errorf("pool %s system %s, want 0.50 and 8.81", out.PassivePool, out.SystemFund)
	}
}

func TestSimulate_MinimumPayableUnit(t *testing.T) {
	f := newFixture(t, testCommissionTable(t), Config{MaxDepth: 7, Precision: 2, MinPayableUnit: d("0.35")}, false)

	out, err := f.engine.Simulate(&commissiondto.SimulationInput{Amount: d("10.01"), UplineRanks: []int{2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Shares) != 1 || out.Shares[0].Tier != 2 {
		t.Fatalf("shares = %+v, want only tier 2", out.Shares)
	}
	if !out.SystemFund.Equal(d("9.11")) {
		t.Errorf("system fund = %s, want 9.11", out.SystemFund)
	}
}

func TestSimulate_SumEqualsAmount(t *testing.T) {
	table, err := domain.NewCommissionTable([]domain.CommissionRule{
		{ID: "sponsor", Kind: domain.RuleSponsor, Rate: d("7.5")},
		{ID: "career", Kind: domain.RuleCareer, Rate: d("12.5")},
		{ID: "passive", Kind: domain.RulePassive, Rate: d("3.33")},
		{ID: "system", Kind: domain.RuleSystemFund, Rate: d("76.67")},
	})
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, table, Config{MaxDepth: 5, Precision: 2, MinPayableUnit: d("0.05")}, false)

	for i := 1; i <= 200; i++ {
		amount := decimal.NewFromInt(int64(i * 37)).Div(decimal.NewFromInt(7)).Truncate(4)
		ranks := []int{i%3 + 1, (i+1)%3 + 1, 3, 1, 2, 3, 3}
		out, err := f.engine.Simulate(&commissiondto.SimulationInput{Amount: amount, UplineRanks: ranks, InactiveTiers: []int{i%4 + 1}})
		if err != nil {
			t.Fatal(err)
		}
		sum := out.SystemFund.Add(out.PassivePool)
		for _, s := range out.Shares {
			if !s.Redirected {
				sum = sum.Add(s.Amount)
			}
		}
		if !sum.Equal(amount) {
			t.Fatalf("amount %s: credits sum to %s", amount, sum)
		}
	}
}

func TestSimulate_PayerLevelAfterInvestment(t *testing.T) {
	f := newFixture(t, testCommissionTable(t), Config{MaxDepth: 7, Precision: 2}, false)
	out, err := f.engine.Simulate(&commissiondto.SimulationInput{
		Amount:     d("500"),
		PayerStats: domain.MemberStats{DirectReferrals: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.PayerLevelBefore.Rank != 1 || out.PayerLevelAfter.Rank != 2 {
		t.Errorf("payer level %d -> %d, want 1 -> 2", out.PayerLevelBefore.Rank, out.PayerLevelAfter.Rank)
	}
	if _, err := f.engine.Simulate(&commissiondto.SimulationInput{Amount: d("0")}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Simulate(0) error = %v, want ErrInvalidAmount", err)
	}
}

func ExampleDefaultCommissionUsecase_Simulate() {
	table, _ := domain.NewCommissionTable([]domain.CommissionRule{
		{ID: "career", Kind: domain.RuleCareer, Rate: decimal.NewFromInt(10)},
		{ID: "passive", Kind: domain.RulePassive, Rate: decimal.NewFromInt(5)},
		{ID: "system", Kind: domain.RuleSystemFund, Rate: decimal.NewFromInt(85)},
	})
	levels, _ := domain.NewCareerTable([]domain.CareerLevel{
		{Rank: 1, Name: "tier-1", CommissionRate: decimal.NewFromInt(2)},
		{Rank: 2, Name: "tier-2", CommissionRate: decimal.NewFromInt(3)},
		{Rank: 3, Name: "tier-3", CommissionRate: decimal.NewFromInt(4)},
	})
	c := career.NewDefaultCareerUsecase(career.NewEvaluator(levels), nil, nil, nil, nil, nil, nil, career.Config{}, nil)
	engine := NewDefaultCommissionUsecase(table, nil, nil, c, nil, nil, nil, Config{Precision: 2}, nil)

	out, _ := engine.Simulate(&commissiondto.SimulationInput{Amount: decimal.NewFromInt(1000), UplineRanks: []int{2, 3}})
	for _, s := range out.Shares {
		fmt.Printf("tier %d (%s): %s\n", s.Tier, s.Level, s.Amount)
	}
	fmt.Println("passive pool:", out.PassivePool)
	fmt.Println("system fund:", out.SystemFund)
	// Output:
	// tier 1 (tier-2): 30
	// tier 2 (tier-3): 40
	// passive pool: 50
	// system fund: 880
}
