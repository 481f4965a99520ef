package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"soltrader-go/internal/engine"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
	streamBuffer     = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans tick results out to websocket subscribers. Slow subscribers miss
// messages rather than block the tick.
type Hub struct {
	log     zerolog.Logger
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[chan []byte]struct{})}
}

// Broadcast sends res to every subscriber. It matches engine.Observer.
func (h *Hub) Broadcast(res engine.TickResult) {
	raw, err := json.Marshal(res)
	if err != nil {
		h.log.Warn().Err(err).Msg("encode tick")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- raw:
		default:
			h.log.Debug().Msg("stream subscriber lagging, dropping tick")
		}
	}
}

// Clients reports the number of live subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and streams ticks until the peer goes away.
func (h *Hub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	send := make(chan []byte, streamBuffer)
	h.mu.Lock()
	h.clients[send] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, send)
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
