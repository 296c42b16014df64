// Package transport is the external "pumps ticks to network clients"
// collaborator spec.md Section 1 calls out of scope for the core: a chi
// router exposing GET /events (SSE) and GET /ws (gorilla websocket),
// replaying whatever SimEvents the driver publishes to it. It never reads
// or mutates worldmodel.World directly — it only relays the event slice
// each tickHour call already produced, the publish-subscribe boundary
// spec.md Section 5 describes ("Network clients receive the same events
// via a publish-subscribe set maintained outside the core").
//
// Grounded on Tutu-Engine-tutuengine's internal/api chi router and
// flusher-based SSE streaming (openai.go/tutu_api.go), and on
// smilemakc-mbflow's internal/infrastructure/websocket Hub/Client
// register-unregister-broadcast pattern, simplified here to a single
// broadcast-to-all-clients feed (the core emits one event stream per run,
// not per-workflow subscriptions).
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans out published events to every connected SSE and websocket
// client.
type Hub struct {
	mu        sync.Mutex
	sseChans  map[chan worldmodel.SimEvent]struct{}
	wsClients map[*wsClient]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sseChans:  make(map[chan worldmodel.SimEvent]struct{}),
		wsClients: make(map[*wsClient]struct{}),
	}
}

// Publish fans one tick's events out to every connected client. Slow or
// gone clients are dropped rather than blocking the publisher — this is
// the ambient collaborator boundary, never called from inside tickHour
// itself.
func (h *Hub) Publish(events []worldmodel.SimEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range events {
		for ch := range h.sseChans {
			select {
			case ch <- ev:
			default:
				slog.Warn("transport: dropping event for slow SSE client", "event", ev.ID)
			}
		}
		for c := range h.wsClients {
			select {
			case c.send <- ev:
			default:
				slog.Warn("transport: dropping event for slow websocket client", "event", ev.ID)
			}
		}
	}
}

func (h *Hub) registerSSE() chan worldmodel.SimEvent {
	ch := make(chan worldmodel.SimEvent, sendBufferSize)
	h.mu.Lock()
	h.sseChans[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unregisterSSE(ch chan worldmodel.SimEvent) {
	h.mu.Lock()
	delete(h.sseChans, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) registerWS(c *wsClient) {
	h.mu.Lock()
	h.wsClients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregisterWS(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.wsClients[c]; ok {
		delete(h.wsClients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

type wsClient struct {
	conn *websocket.Conn
	send chan worldmodel.SimEvent
}

// Router builds the chi router mounting /events and /ws.
func Router(h *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/events", h.handleSSE)
	r.Get("/ws", h.handleWS)
	return r
}

func (h *Hub) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.registerSSE()
	defer h.unregisterSSE(ch)

	ctx := r.Context()
	enc := json.NewEncoder(newSSEWriter(w))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// sseWriter prefixes each JSON-encoded line with "data: " and a blank
// trailer line, the minimal SSE framing.
type sseWriter struct{ w http.ResponseWriter }

func newSSEWriter(w http.ResponseWriter) *sseWriter { return &sseWriter{w: w} }

func (s *sseWriter) Write(p []byte) (int, error) {
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return 0, err
	}
	if _, err := s.w.Write(p); err != nil {
		return 0, err
	}
	_, err := s.w.Write([]byte("\n"))
	return len(p), err
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("transport: websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan worldmodel.SimEvent, sendBufferSize)}
	h.registerWS(client)

	go client.writePump()
	client.readPump(h)
}

// readPump drains (and discards) client frames purely to detect
// disconnects — this feed is one-directional, server to viewer.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		h.unregisterWS(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
