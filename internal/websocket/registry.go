package websocket

// Registry maps a user id to their single live push channel.
// Connections register on upgrade and unregister on disconnect; pushes from
// the publish pipeline look the user up here.

import (
	"log/slog"
	"sync"
)

type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register installs the client as the user's live channel. A prior channel
// for the same user is silently replaced and closed; no multi-device fan-out.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	old := r.clients[client.UserID]
	r.clients[client.UserID] = client
	r.mu.Unlock()

	if old != nil && old != client {
		old.Close()
	}
	r.logger.Debug("push channel registered", "user_id", client.UserID)
}

// Unregister removes the mapping only if it still points at the calling
// client, so a stale close never evicts a newer connection.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	if current, ok := r.clients[client.UserID]; ok && current == client {
		delete(r.clients, client.UserID)
	}
	r.mu.Unlock()

	client.Close()
	r.logger.Debug("push channel unregistered", "user_id", client.UserID)
}

// Lookup returns the user's live client, or nil when not connected.
func (r *Registry) Lookup(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// Push delivers an event to the user's live channel if one is open.
// Best-effort: no channel, a closed channel or a full buffer is a no-op.
func (r *Registry) Push(userID string, event Event) bool {
	client := r.Lookup(userID)
	if client == nil {
		return false
	}

	data, err := event.ToJSON()
	if err != nil {
		return false
	}
	return client.Send(data)
}
