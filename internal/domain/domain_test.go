package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ─── Commission Table ───────────────────────────────────────────────────────

func TestNewCommissionTable(t *testing.T) {
	tests := []struct {
		name    string
		rules   []CommissionRule
		wantErr bool
	}{
		{
			name: "valid table",
			rules: []CommissionRule{
				{ID: "sponsor", Kind: RuleSponsor, Rate: d("5")},
				{ID: "career", Kind: RuleCareer, Rate: d("10")},
				{ID: "passive", Kind: RulePassive, Rate: d("5")},
				{ID: "system", Kind: RuleSystemFund, Rate: d("80")},
			},
		},
		{
			name: "fractional rates summing to 100",
			rules: []CommissionRule{
				{ID: "career", Kind: RuleCareer, Rate: d("12.5")},
				{ID: "system", Kind: RuleSystemFund, Rate: d("87.5")},
			},
		},
		{
			name: "sum below 100",
			rules: []CommissionRule{
				{ID: "career", Kind: RuleCareer, Rate: d("10")},
				{ID: "system", Kind: RuleSystemFund, Rate: d("89.99")},
			},
			wantErr: true,
		},
		{
			name: "missing system fund",
			rules: []CommissionRule{
				{ID: "career", Kind: RuleCareer, Rate: d("100")},
			},
			wantErr: true,
		},
		{
			name: "two system funds",
			rules: []CommissionRule{
				{ID: "a", Kind: RuleSystemFund, Rate: d("50")},
				{ID: "b", Kind: RuleSystemFund, Rate: d("50")},
			},
			wantErr: true,
		},
		{
			name: "duplicate id",
			rules: []CommissionRule{
				{ID: "x", Kind: RuleCareer, Rate: d("50")},
				{ID: "x", Kind: RuleSystemFund, Rate: d("50")},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			rules: []CommissionRule{
				{ID: "career", Kind: RuleCareer, Rate: d("-10")},
				{ID: "system", Kind: RuleSystemFund, Rate: d("110")},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			rules: []CommissionRule{
				{ID: "bonus", Kind: RuleKind("bonus"), Rate: d("10")},
				{ID: "system", Kind: RuleSystemFund, Rate: d("90")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewCommissionTable(tt.rules)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCommissionTable) {
					t.Fatalf("NewCommissionTable() error = %v, want ErrInvalidCommissionTable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCommissionTable() error: %v", err)
			}
			if !table.TotalRate().Equal(d("100")) {
				t.Errorf("TotalRate() = %s, want 100", table.TotalRate())
			}
			if table.SystemRule().Kind != RuleSystemFund {
				t.Errorf("SystemRule().Kind = %q, want system-fund", table.SystemRule().Kind)
			}
		})
	}
}

func TestCommissionRule_Share(t *testing.T) {
	rule := CommissionRule{ID: "career", Kind: RuleCareer, Rate: d("3")}
	if got := rule.Share(d("1000")); !got.Equal(d("30")) {
		t.Errorf("Share(1000) = %s, want 30", got)
	}
}

// ─── Career Table ───────────────────────────────────────────────────────────

func testLevels() []CareerLevel {
	return []CareerLevel{
		{Rank: 2, Name: "tier-2", MinInvestment: d("500"), MinDirectReferrals: 1, CommissionRate: d("3")},
		{Rank: 1, Name: "tier-1", CommissionRate: d("2")},
		{Rank: 3, Name: "tier-3", MinInvestment: d("2000"), MinDirectReferrals: 2, CommissionRate: d("4"), RequiredDownlineRank: 2},
	}
}

func TestNewCareerTable_SortsByRank(t *testing.T) {
	table, err := NewCareerTable(testLevels())
	if err != nil {
		t.Fatalf("NewCareerTable() error: %v", err)
	}
	levels := table.Levels()
	for i, level := range levels {
		if level.Rank != i+1 {
			t.Errorf("Levels()[%d].Rank = %d, want %d", i, level.Rank, i+1)
		}
	}
	if table.Entry().Name != "tier-1" {
		t.Errorf("Entry().Name = %q, want tier-1", table.Entry().Name)
	}
	if table.ByRank(42).Rank != 1 {
		t.Error("ByRank(unknown) should clamp to the entry level")
	}
}

func TestNewCareerTable_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		levels []CareerLevel
	}{
		{"empty", nil},
		{"gap in ranks", []CareerLevel{{Rank: 1, Name: "a"}, {Rank: 3, Name: "c"}}},
		{"entry has requirements", []CareerLevel{{Rank: 1, Name: "a", MinDirectReferrals: 1}}},
		{"unknown downline rank", []CareerLevel{{Rank: 1, Name: "a"}, {Rank: 2, Name: "b", RequiredDownlineRank: 5}}},
		{"negative rate", []CareerLevel{{Rank: 1, Name: "a", CommissionRate: d("-1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCareerTable(tt.levels); !errors.Is(err, ErrInvalidCareerLevels) {
				t.Errorf("NewCareerTable() error = %v, want ErrInvalidCareerLevels", err)
			}
		})
	}
}

func TestCareerLevel_Satisfies(t *testing.T) {
	level := CareerLevel{Rank: 3, MinInvestment: d("2000"), MinDirectReferrals: 2, RequiredDownlineRank: 2}
	tests := []struct {
		name  string
		stats MemberStats
		want  bool
	}{
		{"all met", MemberStats{CumulativeInvestment: d("2000"), DirectReferrals: 2, MaxDownlineRank: 2}, true},
		{"investment short", MemberStats{CumulativeInvestment: d("1999.99"), DirectReferrals: 2, MaxDownlineRank: 2}, false},
		{"referrals short", MemberStats{CumulativeInvestment: d("5000"), DirectReferrals: 1, MaxDownlineRank: 3}, false},
		{"downline short", MemberStats{CumulativeInvestment: d("5000"), DirectReferrals: 5, MaxDownlineRank: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := level.Satisfies(tt.stats); got != tt.want {
				t.Errorf("Satisfies() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ─── Network Node ───────────────────────────────────────────────────────────

func TestNetworkNode_SubtreeSizeAndFreeSlot(t *testing.T) {
	node := NewNetworkNode(Member{ID: "a", Status: MemberActive}, "", 0, 1, 2)
	if node.SubtreeSize() != 1 {
		t.Errorf("SubtreeSize() = %d, want 1", node.SubtreeSize())
	}
	if node.FreeSlot() != 0 {
		t.Errorf("FreeSlot() = %d, want 0", node.FreeSlot())
	}

	node.Children[0] = "b"
	node.LegSizes[0] = 3
	node.LegSizes[1] = 0
	if node.SubtreeSize() != 4 {
		t.Errorf("SubtreeSize() = %d, want 4", node.SubtreeSize())
	}
	if node.FreeSlot() != 1 {
		t.Errorf("FreeSlot() = %d, want 1", node.FreeSlot())
	}

	clone := node.Clone()
	clone.Children[1] = "c"
	if node.Children[1] != "" {
		t.Error("Clone() shares the children slice with the original")
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    *Side
		wantErr bool
	}{
		{"", nil, false},
		{"left", sidePtr(SideLeft), false},
		{"R", sidePtr(SideRight), false},
		{"up", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func sidePtr(s Side) *Side { return &s }

// ─── Transactions ───────────────────────────────────────────────────────────

func TestTransaction_IsQualifying(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"approved investment deposit", Transaction{Kind: KindDeposit, Qualifying: true, Status: StatusApproved}, true},
		{"pending investment deposit", Transaction{Kind: KindDeposit, Qualifying: true, Status: StatusPending}, false},
		{"plain deposit", Transaction{Kind: KindDeposit, Status: StatusApproved}, false},
		{"purchase", Transaction{Kind: KindPurchase, Status: StatusCompleted}, true},
		{"funding leg", Transaction{Kind: KindPurchase, Status: StatusCompleted, OriginTransactionID: "x"}, false},
		{"withdrawal", Transaction{Kind: KindWithdrawal, Status: StatusApproved}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.IsQualifying(); got != tt.want {
				t.Errorf("IsQualifying() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateIBAN(t *testing.T) {
	tests := []struct {
		iban    string
		wantErr bool
	}{
		{"GB82WEST12345698765432", false},
		{"gb82 west 1234 5698 7654 32", false},
		{"DE89370400440532013000", false},
		{"GB82WEST12345698765433", true},
		{"GB8", true},
		{"1282WEST12345698765432", true},
		{"GB82WEST1234569876543!", true},
	}
	for _, tt := range tests {
		t.Run(tt.iban, func(t *testing.T) {
			err := ValidateIBAN(tt.iban)
			if tt.wantErr && !errors.Is(err, ErrInvalidIBAN) {
				t.Errorf("ValidateIBAN(%q) error = %v, want ErrInvalidIBAN", tt.iban, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateIBAN(%q) error: %v", tt.iban, err)
			}
		})
	}
}
