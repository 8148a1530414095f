package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/campuscanteen/canteen/internal/canteen"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
	"github.com/campuscanteen/canteen/internal/redisx"
)

// Handler serves the storefront and admin API. Redis and the producers are
// optional: without them the API still works, just uncached and silent.
type Handler struct {
	Svc            *canteen.Service
	Redis          *redis.Client
	PlacedProducer *kafkax.Producer
	StatusProducer *kafkax.Producer
	Log            *slog.Logger
	Service        string
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders/{orderID}", h.getOrder)
	r.Get("/api/menu", h.listMenu)
	r.Get("/api/menu/category/{category}", h.menuByCategory)
	r.Get("/api/students/{cardID}", h.studentByCard)

	r.Post("/api/admin/menu", h.createMenuItem)
	r.Put("/api/admin/menu/{itemID}", h.updateMenuItem)
	r.Delete("/api/admin/menu/{itemID}", h.deleteMenuItem)
	r.Get("/api/admin/orders", h.listOrders)
	r.Put("/api/admin/orders/{orderID}", h.updateOrderStatus)
	r.Get("/api/admin/stats", h.stats)
}

func (h *Handler) publish(p *kafkax.Producer, eventType, traceID, orderNumber string, payload []byte) {
	if p == nil {
		return
	}
	ev := canteen.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: orderNumber,
		Payload:       payload,
	}
	p.Publish(canteen.PartitionKey(orderNumber), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func requestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// cacheGet returns the cached body for key, if Redis is set and has it.
func (h *Handler) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if h.Redis == nil {
		return nil, false
	}
	b, err := h.Redis.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (h *Handler) cacheSet(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Set(ctx, key, body, ttl).Err()
}

func (h *Handler) cacheDel(ctx context.Context, key string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, key).Err()
}

// menuVersion is the cache generation for menu listings. Admin menu writes
// bump it, which orphans every older menu key instead of scanning for them.
func (h *Handler) menuVersion(ctx context.Context) int64 {
	if h.Redis == nil {
		return 0
	}
	v, err := h.Redis.Get(ctx, redisx.KeyMenuVersion).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (h *Handler) bumpMenuVersion(ctx context.Context) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Incr(ctx, redisx.KeyMenuVersion).Err()
}

func menuCacheKey(ver int64, category, search string) string {
	return fmt.Sprintf(redisx.KeyMenu, ver, category, search)
}
