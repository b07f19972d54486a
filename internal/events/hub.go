package events

import (
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"penguins/internal"

	"github.com/gin-gonic/gin"
)

// DefaultKeepAlive is how often an idle stream gets a ping
const DefaultKeepAlive = 30 * time.Second

// clientBuffer bounds the events queued for a slow client
const clientBuffer = 10

// RecomputeEvent reports the outputs a session just recomputed
type RecomputeEvent struct {
	SessionID string    `json:"session_id"`
	Outputs   []string  `json:"outputs"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans recompute events out to the Server-Sent Events streams open on
// each session
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]map[chan RecomputeEvent]struct{}
	keepAlive time.Duration
	logger    *internal.Logger
}

// NewHub creates a hub that pings idle streams every keepAlive. A
// non-positive keepAlive uses DefaultKeepAlive.
func NewHub(keepAlive time.Duration) *Hub {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &Hub{
		clients:   make(map[string]map[chan RecomputeEvent]struct{}),
		keepAlive: keepAlive,
		logger:    internal.DefaultLogger.With("SSE"),
	}
}

// Subscribe registers a client for sessionID. The returned func unregisters
// it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(sessionID string) (<-chan RecomputeEvent, func()) {
	ch := make(chan RecomputeEvent, clientBuffer)

	h.mu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[chan RecomputeEvent]struct{})
	}
	h.clients[sessionID][ch] = struct{}{}
	h.logger.Debug("client registered for session %s (total clients: %d)", sessionID, len(h.clients[sessionID]))
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			clients := h.clients[sessionID]
			delete(clients, ch)
			close(ch)
			if len(clients) == 0 {
				delete(h.clients, sessionID)
			}
			h.logger.Debug("client unregistered from session %s (remaining clients: %d)", sessionID, len(clients))
		})
	}
}

// Broadcast sends event to every client of its session. It never blocks:
// clients whose buffer is full miss the event.
func (h *Hub) Broadcast(event RecomputeEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients[event.SessionID] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("client channel full for session %s, skipping event", event.SessionID)
		}
	}
}

// ActiveSessions returns the sessions with at least one open stream, sorted
func (h *Hub) ActiveSessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := make([]string, 0, len(h.clients))
	for id := range h.clients {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions
}

// ClientCount returns the number of open streams for a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Stream serves the events of sessionID as text/event-stream until the
// request context ends
func (h *Hub) Stream(c *gin.Context, sessionID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events, unsubscribe := h.Subscribe(sessionID)
	defer unsubscribe()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	// Flush headers so clients see the stream open before the first event
	c.SSEvent("ready", `{"session_id":"`+sessionID+`"}`)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("recompute", string(payload))
			return true

		case t := <-ticker.C:
			c.SSEvent("ping", `{"timestamp":"`+t.UTC().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
