package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/delivery/http/dto/dashboard/request"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/http/dto/dashboard/response"
	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/career"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/commission"
	commissiondto "github.com/LavaJover/shvark-compensation-service/internal/usecase/dto/commission"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/network"
	"github.com/LavaJover/shvark-compensation-service/internal/usecase/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports the state of each named dependency; a nil error means
// healthy.
type HealthCheck func(ctx context.Context) map[string]error

// DashboardHandler serves the read-only member dashboard.
type DashboardHandler struct {
	walletUc     wallet.WalletUsecase
	networkUc    network.NetworkUsecase
	careerUc     career.CareerUsecase
	commissionUc commission.CommissionUsecase
	baseCurrency string
}

func NewDashboardHandler(
	walletUc wallet.WalletUsecase,
	networkUc network.NetworkUsecase,
	careerUc career.CareerUsecase,
	commissionUc commission.CommissionUsecase,
	baseCurrency string,
) *DashboardHandler {
	return &DashboardHandler{
		walletUc:     walletUc,
		networkUc:    networkUc,
		careerUc:     careerUc,
		commissionUc: commissionUc,
		baseCurrency: baseCurrency,
	}
}

// Router mounts the dashboard, /health and /metrics. A nil gatherer serves
// the default registry.
func (h *DashboardHandler) Router(gatherer prometheus.Gatherer, health HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := response.HealthResponse{Status: "ok"}
		code := http.StatusOK
		if health != nil {
			resp.Checks = make(map[string]string)
			for name, err := range health(r.Context()) {
				if err != nil {
					resp.Checks[name] = err.Error()
					resp.Status = "degraded"
					code = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}
		writeJSON(w, code, resp)
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/members/{memberID}", func(r chi.Router) {
		r.Get("/balance", h.GetBalance)
		r.Get("/portfolio", h.GetPortfolio)
		r.Get("/legs", h.GetLegs)
		r.Get("/recommendation", h.GetRecommendation)
		r.Get("/career", h.GetCareer)
	})
	r.Post("/api/v1/simulate", h.Simulate)
	return r
}

func (h *DashboardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = h.baseCurrency
	}
	balance, err := h.walletUc.Balance(r.Context(), memberID, currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.BalanceResponse{
		MemberID:  balance.MemberID,
		Currency:  balance.Currency,
		Balance:   balance.Balance,
		Available: balance.Available,
		Frozen:    balance.Frozen,
	})
}

func (h *DashboardHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	quote := r.URL.Query().Get("quote")
	if quote == "" {
		quote = h.baseCurrency
	}
	portfolio, err := h.walletUc.Portfolio(r.Context(), chi.URLParam(r, "memberID"), quote)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, portfolio)
}

func (h *DashboardHandler) GetLegs(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	legs, err := h.networkUc.LegBalance(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.LegsResponse{
		MemberID:   memberID,
		Left:       legs.Left,
		Right:      legs.Right,
		Ratio:      legs.Ratio,
		IsBalanced: legs.IsBalanced,
	})
}

func (h *DashboardHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	side, err := h.networkUc.Recommendation(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.RecommendationResponse{MemberID: memberID, Side: side.String()})
}

func (h *DashboardHandler) GetCareer(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	level, err := h.careerUc.Level(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.careerUc.Stats(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.CareerResponse{
		MemberID: memberID,
		Level: response.CareerLevel{
			Rank:           level.Rank,
			Name:           level.Name,
			CommissionRate: level.CommissionRate,
			PassiveRate:    level.PassiveRate,
		},
		CumulativeInvestment: stats.CumulativeInvestment,
		DirectReferrals:      stats.DirectReferrals,
		MaxDownlineRank:      stats.MaxDownlineRank,
	})
}

func (h *DashboardHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req request.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body"})
		return
	}
	out, err := h.commissionUc.Simulate(&commissiondto.SimulationInput{
		Amount: req.Amount,
		PayerStats: domain.MemberStats{
			CumulativeInvestment: req.CumulativeInvestment,
			DirectReferrals:      req.DirectReferrals,
			MaxDownlineRank:      req.MaxDownlineRank,
		},
		UplineRanks:   req.UplineRanks,
		InactiveTiers: req.InactiveTiers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("dashboard request failed", "error", err.Error())
	}
	writeJSON(w, code, response.ErrorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound), errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotBinaryPlan):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
