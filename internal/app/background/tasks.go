package background

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

type Reconciler interface {
	Reconcile(ctx context.Context, limit int) (int, error)
	PayoutPassivePool(ctx context.Context, currency string) ([]domain.CommissionCredit, error)
}

type RateRefresher interface {
	Refresh(ctx context.Context, quote string, bases []string) error
}

type RegistrationHandler interface {
	HandleRegistration(ctx context.Context, event domain.MemberRegisteredEvent) error
}

type Config struct {
	ReconcileInterval    time.Duration
	ReconcileBatch       int
	RatesRefreshInterval time.Duration
	// PayoutInterval of zero disables scheduled passive pool payouts.
	PayoutInterval time.Duration
	BaseCurrency   string
	Currencies     []string

	MemberEventsTopic string
	GroupID           string
}

type BackgroundTasks struct {
	Commission Reconciler
	Rates      RateRefresher
	Enrollment RegistrationHandler
	Subscriber domain.SubscriberPort
	cfg        Config
}

func NewBackgroundTasks(commission Reconciler, rates RateRefresher, enrollment RegistrationHandler, subscriber domain.SubscriberPort, cfg Config) *BackgroundTasks {
	return &BackgroundTasks{
		Commission: commission,
		Rates:      rates,
		Enrollment: enrollment,
		Subscriber: subscriber,
		cfg:        cfg,
	}
}

// StartAll launches every enabled task; they stop when ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.cfg.ReconcileInterval > 0 {
		go bt.every(ctx, bt.cfg.ReconcileInterval, bt.reconcile)
	}
	if bt.Rates != nil && bt.cfg.RatesRefreshInterval > 0 {
		go bt.every(ctx, bt.cfg.RatesRefreshInterval, bt.refreshRates)
	}
	if bt.cfg.PayoutInterval > 0 {
		go bt.every(ctx, bt.cfg.PayoutInterval, bt.payoutPassivePool)
	}
	if bt.Subscriber != nil && bt.cfg.MemberEventsTopic != "" {
		go func() {
			if err := bt.ConsumeMemberEvents(ctx); err != nil {
				slog.Error("member events consumer stopped", "error", err.Error())
			}
		}()
	}
}

func (bt *BackgroundTasks) every(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (bt *BackgroundTasks) reconcile(ctx context.Context) {
	done, err := bt.Commission.Reconcile(ctx, bt.cfg.ReconcileBatch)
	if err != nil {
		slog.Error("reconcile failed", "error", err.Error())
		return
	}
	if done > 0 {
		slog.Info("reconciled undistributed transactions", "count", done)
	}
}

func (bt *BackgroundTasks) refreshRates(ctx context.Context) {
	bases := make([]string, 0, len(bt.cfg.Currencies))
	for _, c := range bt.cfg.Currencies {
		if c != bt.cfg.BaseCurrency {
			bases = append(bases, c)
		}
	}
	if len(bases) == 0 {
		return
	}
	if err := bt.Rates.Refresh(ctx, bt.cfg.BaseCurrency, bases); err != nil {
		slog.Error("rates refresh failed", "quote", bt.cfg.BaseCurrency, "error", err.Error())
		return
	}
	slog.Debug("rates refreshed", "quote", bt.cfg.BaseCurrency, "bases", bases)
}

func (bt *BackgroundTasks) payoutPassivePool(ctx context.Context) {
	for _, currency := range bt.cfg.Currencies {
		credits, err := bt.Commission.PayoutPassivePool(ctx, currency)
		if err != nil {
			slog.Error("passive pool payout failed", "currency", currency, "error", err.Error())
			continue
		}
		if len(credits) > 0 {
			slog.Info("passive pool paid out", "currency", currency, "credits", len(credits))
		}
	}
}

// ConsumeMemberEvents places members announced on the member events topic
// until ctx is cancelled or the subscription ends. Undecodable messages are
// logged and skipped.
func (bt *BackgroundTasks) ConsumeMemberEvents(ctx context.Context) error {
	msgs, err := bt.Subscriber.Subscribe(ctx, bt.cfg.MemberEventsTopic, bt.cfg.GroupID)
	if err != nil {
		return err
	}
	for msg := range msgs {
		var event domain.MemberRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Warn("skipping malformed member event", "key", string(msg.Key), "error", err.Error())
			continue
		}
		if err := bt.Enrollment.HandleRegistration(ctx, event); err != nil {
			slog.Error("failed to place registered member",
				"member_id", event.MemberID,
				"sponsor_id", event.SponsorID,
				"error", err.Error())
		}
	}
	return ctx.Err()
}
