package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/app/background"
	"github.com/LavaJover/shvark-compensation-service/internal/app/setup"
	"github.com/LavaJover/shvark-compensation-service/internal/config"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/grpcapi/compensationpb"
	"github.com/LavaJover/shvark-compensation-service/internal/delivery/http/handlers"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage, cache, broker
	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	ucs, err := setup.InitializeUseCases(ctx, deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// Background tasks
	var rates background.RateRefresher
	if ucs.ExchangeUsecase != nil {
		rates = ucs.ExchangeUsecase
	}
	tasks := background.NewBackgroundTasks(ucs.CommissionUsecase, rates, ucs.EnrollmentUsecase, deps.Subscriber, background.Config{
		ReconcileInterval:    cfg.Background.ReconcileInterval,
		ReconcileBatch:       cfg.Background.ReconcileBatch,
		RatesRefreshInterval: cfg.Background.RatesRefreshInterval,
		PayoutInterval:       cfg.Background.PayoutInterval,
		BaseCurrency:         cfg.Plan.BaseCurrency,
		Currencies:           cfg.Plan.Currencies,
		MemberEventsTopic:    cfg.Kafka.MemberEventsTopic,
		GroupID:              cfg.Kafka.GroupID,
	})
	tasks.StartAll(ctx)

	// Creating gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.UnaryErrorInterceptor))
	compensationpb.RegisterWalletServiceServer(grpcServer, grpcapi.NewWalletHandler(ucs.WalletUsecase))
	compensationpb.RegisterNetworkServiceServer(grpcServer, grpcapi.NewNetworkHandler(ucs.NetworkUsecase, ucs.EnrollmentUsecase))
	compensationpb.RegisterCommissionServiceServer(grpcServer, grpcapi.NewCommissionHandler(ucs.CommissionUsecase, ucs.CareerUsecase))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err.Error())
			stop()
		}
	}()

	// Dashboard
	dashboard := handlers.NewDashboardHandler(ucs.WalletUsecase, ucs.NetworkUsecase, ucs.CareerUsecase, ucs.CommissionUsecase, cfg.Plan.BaseCurrency)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           dashboard.Router(deps.Registry, healthChecks(deps, ucs)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err.Error())
			stop()
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	<-ctx.Done()
	slog.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err.Error())
	}
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
}

func healthChecks(deps *setup.Dependencies, ucs *setup.UseCases) handlers.HealthCheck {
	return func(ctx context.Context) map[string]error {
		checks := deps.HealthCheck(ctx)
		if ucs.ExchangeUsecase != nil {
			for name, err := range ucs.ExchangeUsecase.HealthCheck(ctx) {
				checks["rates:"+name] = err
			}
		}
		return checks
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	switch cfg.LogOutput {
	case "", "stdout":
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.LogOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		out = f
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}
