package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
)

// EventRecorder keeps published events in memory.
type EventRecorder struct {
	mu          sync.Mutex
	Transaction []domain.TransactionEvent
	Commission  []domain.CommissionEvent
	Promotion   []domain.PromotionEvent
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) PublishTransaction(ctx context.Context, event domain.TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transaction = append(r.Transaction, event)
	return nil
}

func (r *EventRecorder) PublishCommission(ctx context.Context, event domain.CommissionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commission = append(r.Commission, event)
	return nil
}

func (r *EventRecorder) PublishPromotion(ctx context.Context, event domain.PromotionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Promotion = append(r.Promotion, event)
	return nil
}

func (r *EventRecorder) Promotions() []domain.PromotionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PromotionEvent(nil), r.Promotion...)
}
