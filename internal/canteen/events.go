package canteen

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope wraps every event published to Kafka.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order number
	Payload       json.RawMessage `json:"payload"`
}

type EventLine struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
	PricePaise int64 `json:"price_paise"`
}

type OrderPlacedPayload struct {
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CardID      string      `json:"card_id"`
	Items       []EventLine `json:"items"`
	TotalPaise  int64       `json:"total_paise"`
	Status      string      `json:"status"`
}

type OrderStatusChangedPayload struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}
