// Package realtime pushes per-user events to websocket clients.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 16
)

// EventRecentFoodsUpdated is published after a user's recent foods changed.
const EventRecentFoodsUpdated = "recentFoods.updated"

// Event is the message written to clients.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// Client is one websocket connection of a user. gorilla connections allow a
// single concurrent writer, so writes go through mu.
type Client struct {
	UserID uuid.UUID
	conn   *websocket.Conn
	mu     sync.Mutex

	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}

// Hub tracks connected clients by user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger.With("component", "realtime"),
	}
}

// Register adds a connection for userID. Queued events are only written
// once Serve runs the client's writer.
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) *Client {
	c := &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister removes the client and closes its connection.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	c.closeOnce.Do(func() { close(c.closed) })
	_ = c.conn.Close()
}

// ClientCount returns how many connections userID has open.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every client. Serve loops return once their reads fail.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[uuid.UUID]map[*Client]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			c.closeOnce.Do(func() { close(c.closed) })
			_ = c.conn.Close()
		}
	}
}

// Publish queues an event for every connection of userID without blocking.
// A client whose queue is full is too slow to keep up and is dropped.
func (h *Hub) Publish(userID uuid.UUID, eventType string, data any) {
	msg, err := json.Marshal(Event{Type: eventType, At: time.Now().UTC(), Data: data})
	if err != nil {
		h.logger.Error("failed to encode event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow client", "user_id", userID, "type", eventType)
			h.Unregister(c)
		}
	}
}

// Serve registers conn and blocks until the client goes away. Incoming
// messages are ignored.
func (h *Hub) Serve(userID uuid.UUID, conn *websocket.Conn) {
	c := h.Register(userID, conn)
	go h.writeLoop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Unregister(c)
			return
		}
	}
}

// writeLoop is the only writer of queued events and pings for c.
func (h *Hub) writeLoop(c *Client) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("dropping client after write error", "user_id", c.UserID, "error", err)
				h.Unregister(c)
				return
			}
		case <-t.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		}
	}
}
