package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HubConfig bounds per-connection behavior.
type HubConfig struct {
	WriteTimeout time.Duration // Per-frame write deadline
	PingInterval time.Duration // Keepalive ping period
	QueueDepth   int           // Initial per-subscriber outbox capacity
}

// DefaultHubConfig returns the production hub parameters.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		QueueDepth:   64,
	}
}

// Hub fans published updates out to all connected WebSocket subscribers.
type Hub struct {
	cfg      HubConfig
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn *websocket.Conn
	out  *Queue[[]byte]
}

// NewHub creates an empty hub.
func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Snapshot data is public; the dashboard may be served from
			// another origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

// Publish marshals v once and queues it to every subscriber.
func (h *Hub) Publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("publish marshal failed", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		sub.out.Push(data)
	}
}

// Subscribers returns the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.out.Close()
		sub.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second),
		)
		sub.conn.Close()
	}
}

// ServeWS handles GET /ws/quotes, upgrading the request and streaming
// published updates until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		out:  NewQueue[[]byte](h.cfg.QueueDepth),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber connected",
		"remote", conn.RemoteAddr().String(),
		"subscribers", count,
	)

	go h.writeLoop(sub)
	go h.pingLoop(sub)

	// Read loop: the client sends nothing meaningful, but reading is what
	// surfaces close frames and connection drops.
	conn.SetPongHandler(func(string) error { return nil })
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(sub)
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	_, present := h.subs[sub]
	delete(h.subs, sub)
	count := len(h.subs)
	h.mu.Unlock()

	if !present {
		return
	}

	sub.out.Close()
	sub.conn.Close()
	h.logger.Debug("subscriber disconnected", "subscribers", count)
}

func (h *Hub) writeLoop(sub *subscriber) {
	for {
		data, ok := sub.out.Pop()
		if !ok {
			return
		}

		sub.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(sub)
			return
		}
	}
}

func (h *Hub) pingLoop(sub *subscriber) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for range ticker.C {
		deadline := time.Now().Add(h.cfg.WriteTimeout)
		if err := sub.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			h.drop(sub)
			return
		}
	}
}
