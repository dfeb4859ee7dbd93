package aicoach

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oguzhankarahan/quoteboard/internal/config"
)

// Proxy forwards chat requests to the configured completion endpoint. The
// browser never sees the token; this is the only reason the route exists
// server-side.
type Proxy struct {
	cfg    config.AIConfig
	client *http.Client
	logger *slog.Logger
}

// NewProxy creates a chat proxy.
func NewProxy(cfg config.AIConfig, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ServeChat handles POST /api/ai/chat. The body is forwarded as-is except
// that the model name is pinned server-side.
func (p *Proxy) ServeChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "body too large or unreadable")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if p.cfg.Model != "" {
		payload["model"] = p.cfg.Model
	}

	forwarded, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode upstream request")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, p.cfg.Endpoint, bytes.NewReader(forwarded))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "build upstream request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("chat upstream failed", "err", err)
		writeError(w, http.StatusBadGateway, "chat service unavailable")
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
