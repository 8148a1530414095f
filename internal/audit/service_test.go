package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/campuscanteen/canteen/internal/canteen"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
)

// fakeCache claims keys atomically like Redis SETNX does, so it can stand in
// for the real client under concurrent handlers.
type fakeCache struct {
	mu      sync.Mutex
	claimed map[string]bool
	values  map[string]string
	writes  map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{claimed: map[string]bool{}, values: map[string]string{}, writes: map[string]int{}}
}

func (f *fakeCache) SetNX(_ context.Context, key string, _ any, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[key] {
		return redis.NewBoolResult(false, nil)
	}
	f.claimed[key] = true
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	f.writes[key]++
	return redis.NewStatusResult("OK", nil)
}

func newTestService(cache Cache) *Service {
	return &Service{
		Redis:       cache,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		ServiceName: "auditor-test",
	}
}

func placedMessage(eventID, orderNumber string) kafkago.Message {
	env := canteen.Envelope{
		EventID:       eventID,
		EventType:     canteen.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "canteen-api",
		CorrelationID: orderNumber,
		Payload: kafkax.MustMarshal(canteen.OrderPlacedPayload{
			OrderID:     7,
			OrderNumber: orderNumber,
			CardID:      "CARD-001",
			TotalPaise:  21000,
			Status:      string(canteen.StatusConfirmed),
		}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderPlaced_WritesStatusKey(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	if err := svc.HandleOrderPlaced(context.Background(), placedMessage("ev-1", "ORD-20250314-1234")); err != nil {
		t.Fatalf("HandleOrderPlaced: %v", err)
	}

	key := "order_status:ORD-20250314-1234"
	if got := cache.values[key]; got != "confirmed" {
		t.Errorf("status key = %q, want confirmed", got)
	}
}

func TestHandleStatusChanged_UpdatesStatusKey(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	env := canteen.Envelope{
		EventID:   "ev-2",
		EventType: canteen.EventOrderStatusChanged,
		Payload: kafkax.MustMarshal(canteen.OrderStatusChangedPayload{
			OrderID:     7,
			OrderNumber: "ORD-20250314-1234",
			Status:      "completed",
		}),
	}
	m := kafkago.Message{Value: kafkax.MustMarshal(env)}
	if err := svc.HandleStatusChanged(context.Background(), m); err != nil {
		t.Fatalf("HandleStatusChanged: %v", err)
	}

	if got := cache.values["order_status:ORD-20250314-1234"]; got != "completed" {
		t.Errorf("status key = %q, want completed", got)
	}
}

func TestRedeliveredEventProcessedOnce(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)
	m := placedMessage("ev-dup", "ORD-20250314-5678")

	// concurrent redelivery to racing workers
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.HandleOrderPlaced(context.Background(), m)
		}()
	}
	wg.Wait()

	dedupKey := "dedup:auditor-test:ev-dup"
	if !cache.claimed[dedupKey] {
		t.Fatalf("dedup key %q was never claimed", dedupKey)
	}
	if n := cache.writes["order_status:ORD-20250314-5678"]; n != 1 {
		t.Errorf("status writes = %d, want 1", n)
	}
}

func TestMismatchedEventTypeIgnored(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	env := canteen.Envelope{EventID: "ev-3", EventType: canteen.EventOrderStatusChanged}
	m := kafkago.Message{Value: kafkax.MustMarshal(env)}
	if err := svc.HandleOrderPlaced(context.Background(), m); err != nil {
		t.Fatalf("HandleOrderPlaced: %v", err)
	}
	if len(cache.claimed) != 0 || len(cache.values) != 0 {
		t.Errorf("mismatched event type touched the cache")
	}
}
