package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/campuscanteen/canteen/internal/canteen"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
	"github.com/campuscanteen/canteen/internal/redisx"
)

// Cache is the slice of the Redis client the auditor needs. *redis.Client
// satisfies it.
type Cache interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Service consumes order events, writes an audit trail and keeps the Redis
// order-status key current. Events are deduplicated by event id, so
// redelivered messages log once.
type Service struct {
	Redis       Cache
	Log         *slog.Logger
	ServiceName string
}

func (s *Service) cacheStatus(ctx context.Context, orderNumber, status string) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderNumber)
	if err := s.Redis.Set(ctx, key, status, redisx.TTLStatusCache).Err(); err != nil {
		s.Log.Warn("status cache write failed", "order_number", orderNumber, "err", err)
	}
}

// seen claims the event id with a single SETNX, so concurrent workers racing
// on a redelivered message cannot both pass.
func (s *Service) seen(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	fresh, err := s.Redis.SetNX(ctx, key, 1, redisx.TTLDedup).Result()
	if err != nil {
		// Redis unavailable: process rather than drop
		return false
	}
	return !fresh
}

func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env canteen.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != canteen.EventOrderPlaced {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[canteen.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	s.cacheStatus(ctx, p.OrderNumber, p.Status)
	s.Log.Info("order placed",
		"order_number", p.OrderNumber,
		"card_id", p.CardID,
		"lines", len(p.Items),
		"total_paise", p.TotalPaise,
		"trace_id", env.TraceID,
	)
	return nil
}

func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env canteen.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != canteen.EventOrderStatusChanged {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[canteen.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	s.cacheStatus(ctx, p.OrderNumber, p.Status)
	s.Log.Info("order status changed",
		"order_number", p.OrderNumber,
		"status", p.Status,
		"trace_id", env.TraceID,
	)
	return nil
}
