package livequote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ServeQuote handles GET /api/quote/{symbol}. Status codes distinguish the
// failure modes: 400 missing symbol, 429 breaker open with no cache, 500
// upstream failure with no cache.
func (s *Service) ServeQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.PathValue("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	p, err := s.Get(r.Context(), symbol)
	switch {
	case errors.Is(err, ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
