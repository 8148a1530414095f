package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campuscanteen/canteen/internal/canteen"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// writeError maps domain errors to their wire form. Anything without a fixed
// mapping becomes a 500 with the underlying message in the body; fine for an
// internal tool, this API is not public-facing.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var we *canteen.WireError
	if errors.As(err, &we) {
		writeJSON(w, we.HTTPStatus, we)
		return
	}
	log.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "Internal server error: " + err.Error(),
		"code":  canteen.CodeInternal,
	})
}
