package events

import (
	"context"
	"encoding/json"
)

// TopicBlogEvents carries the fan-out messages emitted by the publish pipeline.
const TopicBlogEvents = "blog.events"

// Blog state-change actions carried in BlogEvent.
const (
	ActionPublished = "published"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
)

// BlogEvent is the opaque JSON payload published on TopicBlogEvents.
// Subscribers must tolerate the referenced blog no longer existing.
type BlogEvent struct {
	BlogID      string `json:"blog_id"`
	AuthorEmail string `json:"author_email"`
	Action      string `json:"action"`
}

func (e BlogEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func ParseBlogEvent(payload []byte) (*BlogEvent, error) {
	var event BlogEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Handler processes one delivered message. Handlers run on the consumer loop;
// a panic or error in one message must not stop delivery of the next.
type Handler func(ctx context.Context, payload []byte)

// Bus is a topic-based publish/subscribe channel external to the process.
// Publish is fire-and-forget from the caller's perspective: callers log a
// returned error and move on, they never fail their own request over it.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
}

// NopBus drops publishes and delivers nothing. It stands in when the broker
// is unreachable at startup so the service still comes up in degraded mode.
type NopBus struct{}

func (NopBus) Publish(ctx context.Context, topic string, payload []byte) error { return nil }
func (NopBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	return nil
}
