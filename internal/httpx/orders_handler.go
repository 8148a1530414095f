package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuscanteen/canteen/internal/canteen"
	kafkax "github.com/campuscanteen/canteen/internal/kafka"
	"github.com/campuscanteen/canteen/internal/redisx"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req canteen.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	receipt, err := h.Svc.PlaceOrder(ctx, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	eventLines := make([]canteen.EventLine, 0, len(receipt.Lines))
	for _, l := range receipt.Lines {
		eventLines = append(eventLines, canteen.EventLine{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			PricePaise: int64(l.PriceAtOrder),
		})
	}
	h.publish(h.PlacedProducer, canteen.EventOrderPlaced, requestID(r.Context()), receipt.OrderNumber,
		kafkax.MustMarshal(canteen.OrderPlacedPayload{
			OrderID:     receipt.OrderID,
			OrderNumber: receipt.OrderNumber,
			CardID:      receipt.CardID,
			Items:       eventLines,
			TotalPaise:  int64(receipt.TotalAmount),
			Status:      string(receipt.Status),
		}))

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, h.Log, canteen.ErrInvalidOrderID())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderDetail, orderID)
	if body, ok := h.cacheGet(ctx, key); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	detail, err := h.Svc.OrderDetail(ctx, orderID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	body, err := json.Marshal(detail)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheSet(ctx, key, body, redisx.TTLDetailCache)
	writeRaw(w, http.StatusOK, body)
}
