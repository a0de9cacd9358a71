package wshub

import (
	"context"
	"encoding/json"
	"sync"

	"jyokai/internal/scenes"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type  string  `json:"t"`
	Index int     `json:"i,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// Restart is not a scene input; the server handles it directly.
const TypeRestart = "restart"

// Input converts the message into a scene input.
func (m ClientMessage) Input() (scenes.Input, bool) {
	switch m.Type {
	case "start":
		return scenes.Input{Kind: scenes.InputStart}, true
	case "card":
		return scenes.Input{Kind: scenes.InputCard, Index: m.Index}, true
	case "bubble":
		return scenes.Input{Kind: scenes.InputBubble, Index: m.Index}, true
	case "guess":
		return scenes.Input{Kind: scenes.InputPointer, X: m.X, Y: m.Y}, true
	}
	return scenes.Input{}, false
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type string          `json:"t"`
	Data json.RawMessage `json:"d,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub manages the WebSocket connections of one session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// Broadcast sends a message to every client. Non-blocking: drops if channel full.
func (h *Hub) Broadcast(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("component", "wshub").Msg("marshal error")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unregisters every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Send)
		delete(h.clients, id)
	}
}
