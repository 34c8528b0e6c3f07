package sse

import (
	"sync"
)

// Message is one server-sent event: access lifecycle changes (granted,
// released, expired) that frontends use to track robot availability
// without polling.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one connected event-stream consumer.
type Client struct {
	ClientID    string
	MessageChan chan *Message
	closeOnce   sync.Once
}

func NewClient(clientID string) *Client {
	return &Client{
		ClientID:    clientID,
		MessageChan: make(chan *Message, 16),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.MessageChan)
	})
}

// Hub manages SSE clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers a message to every connected client. Slow clients with
// a full channel are skipped rather than blocked on.
func (h *Hub) Broadcast(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.MessageChan <- message:
		default:
		}
	}
}

func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}
