package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultLiveInterval matches the dashboard refresh rate.
const DefaultLiveInterval = 250 * time.Millisecond

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler pushes each new snapshot to WebSocket clients.
type LiveHandler struct {
	source   SnapshotSource
	interval time.Duration
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
}

// NewLiveHandler creates a LiveHandler. Broadcast must be running for
// clients to receive updates.
func NewLiveHandler(source SnapshotSource, interval time.Duration) *LiveHandler {
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	return &LiveHandler{
		source:   source,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and sends the current snapshot.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	msg, err := json.Marshal(h.source.Read())
	if err != nil {
		return
	}

	h.mu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, msg)
	if err == nil {
		h.clients[conn] = true
	}
	h.mu.Unlock()
	if err != nil {
		return
	}

	defer h.remove(conn)

	// Reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast polls the source and pushes snapshots whose sequence number
// changed, until ctx is done.
func (h *LiveHandler) Broadcast(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		seq := h.source.Seq()
		if seq == lastSeq || h.count() == 0 {
			continue
		}
		lastSeq = seq

		msg, err := json.Marshal(h.source.Read())
		if err != nil {
			log.Printf("live snapshot encode failed: %v", err)
			continue
		}
		h.send(msg)
	}
}

func (h *LiveHandler) send(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *LiveHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *LiveHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *LiveHandler) closeAll() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
