package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-compensation-service/internal/domain"
	"github.com/shopspring/decimal"
)

type published struct {
	topic string
	msg   domain.Message
}

type fakePort struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []published
}

func (f *fakePort) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	for _, m := range msgs {
		f.sent = append(f.sent, published{topic: topic, msg: m})
	}
	return nil
}

func newTestPublisher(port *fakePort, retries int) *EventPublisher {
	p := NewEventPublisher(port, Topics{Ledger: "ledger-events", Commission: "commission-events", Career: "career-events"}, retries)
	p.backoff = time.Millisecond
	return p
}

func TestEventPublisher_Topics(t *testing.T) {
	port := &fakePort{}
	p := newTestPublisher(port, 1)
	ctx := context.Background()

	if err := p.PublishTransaction(ctx, domain.TransactionEvent{TransactionID: "t1", MemberID: "m1", Amount: decimal.NewFromInt(5)}); err != nil {
		t.Fatal(err)
	}
	if err := p.PublishCommission(ctx, domain.CommissionEvent{OriginTransactionID: "t1", PayerID: "m2"}); err != nil {
		t.Fatal(err)
	}
	if err := p.PublishPromotion(ctx, domain.PromotionEvent{MemberID: "m3", FromRank: 1, ToRank: 2}); err != nil {
		t.Fatal(err)
	}

	want := []struct{ topic, key string }{
		{"ledger-events", "m1"},
		{"commission-events", "m2"},
		{"career-events", "m3"},
	}
	if len(port.sent) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(port.sent), len(want))
	}
	for i, w := range want {
		if port.sent[i].topic != w.topic || string(port.sent[i].msg.Key) != w.key {
			t.Errorf("message %d = %s/%s, want %s/%s", i, port.sent[i].topic, port.sent[i].msg.Key, w.topic, w.key)
		}
	}

	var decoded domain.TransactionEvent
	if err := json.Unmarshal(port.sent[0].msg.Value, &decoded); err != nil {
		t.Fatalf("transaction event is not JSON: %v", err)
	}
	if decoded.TransactionID != "t1" || !decoded.Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("decoded event = %+v", decoded)
	}
}

func TestEventPublisher_Retry(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		port := &fakePort{failures: 2}
		p := newTestPublisher(port, 3)
		if err := p.PublishPromotion(context.Background(), domain.PromotionEvent{MemberID: "m"}); err != nil {
			t.Fatalf("PublishPromotion() error: %v", err)
		}
		if port.calls != 3 || len(port.sent) != 1 {
			t.Errorf("calls = %d, sent = %d, want 3 and 1", port.calls, len(port.sent))
		}
	})

	t.Run("gives up", func(t *testing.T) {
		port := &fakePort{failures: 10}
		p := newTestPublisher(port, 2)
		if err := p.PublishPromotion(context.Background(), domain.PromotionEvent{MemberID: "m"}); err == nil {
			t.Fatal("PublishPromotion() error = nil, want error")
		}
		if port.calls != 2 {
			t.Errorf("calls = %d, want 2", port.calls)
		}
	})
}
