package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkolesni/timecapsule/internal/common"
)

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(r.Context(), "error encoding response", "error", err)
	}
}

// writeError maps service errors to HTTP statuses. Anything unrecognized
// becomes a 500 with a generic body so internal details never leak.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, common.ErrorUnauthorized):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		http.Error(w, "refresh token expired", http.StatusUnauthorized)
	default:
		h.logger.Error(r.Context(), "internal error", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
