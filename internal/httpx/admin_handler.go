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

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req canteen.CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	mi, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.bumpMenuVersion(ctx)
	writeJSON(w, http.StatusCreated, mi)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var upd canteen.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	mi, err := h.Svc.UpdateMenuItem(ctx, chi.URLParam(r, "itemID"), upd)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.bumpMenuVersion(ctx)
	writeJSON(w, http.StatusOK, mi)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Svc.DeleteMenuItem(ctx, chi.URLParam(r, "itemID")); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.bumpMenuVersion(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted successfully"})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type updateOrderStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, h.Log, canteen.ErrInvalidOrderID())
		return
	}
	var req updateOrderStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Svc.UpdateOrderStatus(ctx, orderID, req.Status)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	// The cached detail now lies about the status.
	h.cacheDel(ctx, fmt.Sprintf(redisx.KeyOrderDetail, order.ID))

	h.publish(h.StatusProducer, canteen.EventOrderStatusChanged, requestID(r.Context()), order.OrderNumber,
		kafkax.MustMarshal(canteen.OrderStatusChangedPayload{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
		}))

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
