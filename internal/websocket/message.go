package websocket

import (
	"encoding/json"
	"log/slog"
)

// Message protocol definitions

type EventType string

const (
	// TypeNotification carries a persisted notification to its owner
	TypeNotification EventType = "notification"
)

// Event is the frame pushed to a connected client.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// NewNotificationEvent wraps a notification payload in a push frame.
func NewNotificationEvent(data any) Event {
	return Event{
		Type: TypeNotification,
		Data: data,
	}
}

// ToJSON: marshal Event struct to JSON
func (e Event) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal event to JSON", "error", err)
		return nil, err
	}
	return data, nil
}
