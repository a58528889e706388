package ws

import (
	"encoding/json"
	"sync"

	"tipfinity/internal/models"
)

// Client is one overlay-widget connection listening for a creator's tips.
type Client struct {
	CreatorID uint
	Send      chan []byte
	hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend queues data unless the client is closed or its buffer is full.
// The mutex orders it against Close, so the send never hits a closed channel.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub maintains the set of active alert clients, keyed by creator.
// Delivery is best-effort: slow clients are skipped, never blocked on.
type Hub struct {
	mu        sync.RWMutex
	byCreator map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byCreator: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byCreator[c.CreatorID] == nil {
		h.byCreator[c.CreatorID] = make(map[*Client]struct{})
	}
	h.byCreator[c.CreatorID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byCreator[c.CreatorID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byCreator, c.CreatorID)
		}
	}
}

// BroadcastTip pushes a freshly accepted tip to every connection watching its
// creator. Duplicates and rejected reports never reach the hub.
func (h *Hub) BroadcastTip(tip *models.Tip) {
	data, _ := json.Marshal(map[string]interface{}{"type": "tip", "tip": tip})
	h.mu.RLock()
	m := h.byCreator[tip.CreatorID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount(creatorID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byCreator[creatorID])
}
