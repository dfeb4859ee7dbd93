package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/quotes"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForSubscribers(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", h.Subscribers(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	h := NewHub(DefaultHubConfig(), nil)
	defer h.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quotes", h.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialHub(t, server)
	defer conn.Close()
	waitForSubscribers(t, h, 1)

	h.Publish(map[string]any{"symbol": "BTC", "price": 50000.0})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg["symbol"] != "BTC" || msg["price"] != 50000.0 {
		t.Errorf("msg = %v", msg)
	}
}

func TestHub_PublishFansOut(t *testing.T) {
	h := NewHub(DefaultHubConfig(), nil)
	defer h.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quotes", h.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	c1 := dialHub(t, server)
	defer c1.Close()
	c2 := dialHub(t, server)
	defer c2.Close()
	waitForSubscribers(t, h, 2)

	h.Publish(map[string]string{"symbol": "ETH"})

	for i, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read failed: %v", i, err)
		}
		if !strings.Contains(string(data), "ETH") {
			t.Errorf("client %d got %s", i, data)
		}
	}
}

func TestHub_DisconnectPrunesSubscriber(t *testing.T) {
	h := NewHub(DefaultHubConfig(), nil)
	defer h.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quotes", h.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialHub(t, server)
	waitForSubscribers(t, h, 1)

	conn.Close()
	waitForSubscribers(t, h, 0)

	// Publishing into an empty hub is a no-op, not a panic.
	h.Publish(map[string]string{"symbol": "BTC"})
}

func TestHub_CloseRejectsNewConnections(t *testing.T) {
	h := NewHub(DefaultHubConfig(), nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/quotes", h.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	h.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/quotes"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded against a closed hub")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("resp = %+v, want 503", resp)
	}
}
