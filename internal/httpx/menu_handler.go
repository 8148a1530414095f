package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campuscanteen/canteen/internal/canteen"
	"github.com/campuscanteen/canteen/internal/redisx"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")
	h.serveMenu(ctx, w, category, search, func() ([]canteen.MenuItem, error) {
		return h.Svc.Menu(ctx, category, search)
	})
}

func (h *Handler) menuByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	category := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category")))
	h.serveMenu(ctx, w, category, "", func() ([]canteen.MenuItem, error) {
		return h.Svc.MenuByCategory(ctx, category)
	})
}

// serveMenu answers from the versioned menu cache when possible and fills it
// on a miss. An empty result is a 200 with an empty array, never an error.
func (h *Handler) serveMenu(ctx context.Context, w http.ResponseWriter, category, search string, load func() ([]canteen.MenuItem, error)) {
	key := menuCacheKey(h.menuVersion(ctx), category, search)
	if body, ok := h.cacheGet(ctx, key); ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	items, err := load()
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	body, err := json.Marshal(items)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.cacheSet(ctx, key, body, redisx.TTLMenuCache)
	writeRaw(w, http.StatusOK, body)
}
