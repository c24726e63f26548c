package hub

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"instaclone/backend/internal/metrics"
	"instaclone/backend/pkg/logger"
)

const (
	EventFriendRequestReceived = "friend_request.received"
	EventFriendRequestAccepted = "friend_request.accepted"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is one open stream of a user. The SSE handler drains it.
type Client chan []byte

// Hub fans events out to every open stream of a user.
type Hub struct {
	users   map[uint]map[Client]bool
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
	}
}

// Subscribe registers a new client for userID. On a closed hub the client is
// closed right away so the stream ends.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(client)
		return
	}
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	metrics.StreamOpened()
}

// Unsubscribe removes the client and closes its channel.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			metrics.StreamClosed()
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Close ends every open stream and rejects later subscriptions. It is safe to
// call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, clients := range h.users {
		for client := range clients {
			close(client)
			metrics.StreamClosed()
		}
		delete(h.users, userID)
	}
}

// Publish sends event to every client of userID without blocking.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[userID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode hub event", "type", event.Type, "error", err)
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
			h.dropped.Add(1)
			metrics.RecordHubDrop(event.Type)
			logger.Warn("Dropped hub event for slow stream", "user_id", userID, "type", event.Type)
		}
	}
}

// Subscribers returns the number of open streams of userID.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Dropped returns how many events were discarded because a client buffer was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
