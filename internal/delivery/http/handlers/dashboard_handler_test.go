package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LavaJover/shvark-compensation-service/internal/delivery/http/dto/dashboard/response"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-compensation-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/commission"
	walletdto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/wallet"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestRouter(t *testing.T, health HealthCheck) http.Handler {
	t.Helper()
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.NewCompensationMetrics(reg)

	txs := memory.NewTransactionStore()
	tree, err := network.NewDefaultNetworkUsecase(memory.NewNetworkStore(), nil, network.Config{Plan: domain.PlanBinary}, m)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wallet.NewDefaultWalletUsecase(txs, nil, nil, wallet.Config{Currencies: []string{"USD"}}, m)
	if err != nil {
		t.Fatal(err)
	}
	careerTable, err := domain.NewCareerTable([]domain.CareerLevel{
		{Rank: 1, Name: "starter", CommissionRate: d("2")},
		{Rank: 2, Name: "builder", MinDirectReferrals: 2, CommissionRate: d("4")},
	})
	if err != nil {
		t.Fatal(err)
	}
	commissionTable, err := domain.NewCommissionTable([]domain.CommissionRule{
		{ID: "career", Kind: domain.RuleCareer, Rate: d("10")},
		{ID: "system", Kind: domain.RuleSystemFund, Rate: d("90")},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := career.NewDefaultCareerUsecase(career.NewEvaluator(careerTable), memory.NewCareerStore(), txs, tree, w, nil, nil, career.Config{BaseCurrency: "USD"}, m)
	engine := commission.NewDefaultCommissionUsecase(commissionTable, txs, tree, c, w, memory.NewDistributionLog(), nil, commission.Config{MaxDepth: 7, Precision: 2}, m)

	for _, p := range [][2]string{{"root", ""}, {"a", "root"}, {"b", "root"}, {"c", "a"}} {
		if _, err := tree.Place(ctx, p[0], p[1], nil); err != nil {
			t.Fatal(err)
		}
	}
	tx, err := w.Post(ctx, &walletdto.PostInput{MemberID: "root", Currency: "USD", Amount: d("250"), Kind: domain.KindDeposit})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Approve(ctx, tx.ID); err != nil {
		t.Fatal(err)
	}

	return NewDashboardHandler(w, tree, c, engine, "USD").Router(reg, health)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDashboard_Balance(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/v1/members/root/balance")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp response.BalanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Currency != "USD" || !resp.Balance.Equal(d("250")) {
		t.Errorf("balance = %+v, want 250 USD", resp)
	}

	if rec := get(t, h, "/api/v1/members/root/balance?currency=XYZ"); rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported currency status = %d, want 400", rec.Code)
	}
}

func TestDashboard_Network(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/v1/members/root/legs")
	if rec.Code != http.StatusOK {
		t.Fatalf("legs status = %d, body %s", rec.Code, rec.Body)
	}
	var legs response.LegsResponse
	if err := json.NewDecoder(rec.Body).Decode(&legs); err != nil {
		t.Fatal(err)
	}
	if legs.Left != 2 || legs.Right != 1 {
		t.Errorf("legs = %d/%d, want 2/1", legs.Left, legs.Right)
	}

	rec = get(t, h, "/api/v1/members/root/recommendation")
	var rcm response.RecommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&rcm); err != nil {
		t.Fatal(err)
	}
	if rcm.Side != domain.SideRight.String() {
		t.Errorf("recommendation = %q, want %q", rcm.Side, domain.SideRight.String())
	}

	if rec := get(t, h, "/api/v1/members/ghost/legs"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown member status = %d, want 404", rec.Code)
	}
}

func TestDashboard_Career(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/v1/members/root/career")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp response.CareerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.DirectReferrals != 2 {
		t.Errorf("direct referrals = %d, want 2", resp.DirectReferrals)
	}
}

func TestDashboard_Simulate(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"amount":"1000","uplineRanks":[1,2]}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(`{"amount":"0"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero amount status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader(`{`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestDashboard_HealthAndMetrics(t *testing.T) {
	healthy := newTestRouter(t, func(ctx context.Context) map[string]error {
		return map[string]error{"database": nil}
	})
	if rec := get(t, healthy, "/health"); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	rec := get(t, healthy, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "network_placements_total") {
		t.Error("metrics output has no placement series")
	}

	degraded := newTestRouter(t, func(ctx context.Context) map[string]error {
		return map[string]error{"rates": errors.New("provider down")}
	})
	rec = get(t, degraded, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded health status = %d, want 503", rec.Code)
	}
	var resp response.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Checks["rates"] != "provider down" {
		t.Errorf("checks = %v", resp.Checks)
	}
}
