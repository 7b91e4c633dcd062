package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

type Topics struct {
	Ledger     string
	Commission string
	Career     string
}

// EventPublisher encodes domain events as JSON and writes them to their
// topic, keyed by member so a member's events stay ordered.
type EventPublisher struct {
	port       domain.PublisherPort
	topics     Topics
	maxRetries int
	backoff    time.Duration
}

func NewEventPublisher(port domain.PublisherPort, topics Topics, maxRetries int) *EventPublisher {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &EventPublisher{
		port:       port,
		topics:     topics,
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

func (p *EventPublisher) PublishTransaction(ctx context.Context, event domain.TransactionEvent) error {
	return p.publish(ctx, p.topics.Ledger, event.MemberID, event)
}

func (p *EventPublisher) PublishCommission(ctx context.Context, event domain.CommissionEvent) error {
	return p.publish(ctx, p.topics.Commission, event.PayerID, event)
}

func (p *EventPublisher) PublishPromotion(ctx context.Context, event domain.PromotionEvent) error {
	return p.publish(ctx, p.topics.Career, event.MemberID, event)
}

func (p *EventPublisher) publish(ctx context.Context, topic, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", topic, err)
	}
	msg := domain.Message{Key: []byte(key), Value: value}

	for attempt := 1; ; attempt++ {
		err = p.port.Publish(ctx, topic, msg)
		if err == nil {
			return nil
		}
		slog.Warn("event publish attempt failed", "topic", topic, "attempt", attempt, "error", err.Error())
		if attempt >= p.maxRetries {
			return fmt.Errorf("publish to %s failed after %d attempts: %w", topic, attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
}
