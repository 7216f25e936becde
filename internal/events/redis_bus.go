package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBus implements Bus on redis pub/sub. One subscription owns one
// long-lived consumer goroutine; messages are dispatched to the handler one
// at a time with per-message panic recovery, so a poisoned message is logged
// and dropped instead of killing the loop.
type RedisBus struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBus(addr, password string, logger *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBus{client: rdb, logger: logger}, nil
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe starts the consumer loop and returns once the subscription is
// confirmed. The loop runs until ctx is cancelled or the connection closes.
func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	pubsub := b.client.Subscribe(ctx, topic)

	// Wait for the subscription confirmation so callers know delivery started
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	go b.consume(ctx, topic, pubsub, handler)
	return nil
}

func (b *RedisBus) consume(ctx context.Context, topic string, pubsub *redis.PubSub, handler Handler) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("event subscriber stopping", "topic", topic)
			return
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("event channel closed", "topic", topic)
				return
			}
			b.dispatch(ctx, topic, handler, []byte(msg.Payload))
		}
	}
}

func (b *RedisBus) dispatch(ctx context.Context, topic string, handler Handler, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "topic", topic, "panic", r)
		}
	}()
	handler(ctx, payload)
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
