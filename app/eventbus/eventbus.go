// Package eventbus carries session domain events over an in-process
// Watermill pub/sub.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventsTopic is the single topic all session events are published on.
const EventsTopic = "outing.events"

// Metadata keys set on every event message.
const (
	MetadataEventType     = "event_type"
	MetadataSessionID     = "session_id"
	MetadataCorrelationID = "correlation_id"
)

// ErrClosed is returned by Publish and Subscribe after Close.
var ErrClosed = errors.New("event bus closed")

// Handler processes one delivered message. A non-nil error nacks it.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus wraps a gochannel pub/sub.
type EventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewEventBus creates an in-process bus logging through logger.
func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
	return &EventBus{pubsub: pubsub, logger: logger}
}

// Publish sends msg on topic, assigning a UUID when it has none.
func (eb *EventBus) Publish(ctx context.Context, topic string, msg *message.Message) error {
	eb.mu.Lock()
	closed := eb.closed
	eb.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if msg.UUID == "" {
		msg.UUID = watermill.NewUUID()
	}
	msg.SetContext(ctx)

	eb.logger.DebugContext(ctx, "Publishing message",
		slog.String("topic", topic),
		slog.String("event_type", msg.Metadata.Get(MetadataEventType)),
		slog.String("message_id", msg.UUID),
	)

	if err := eb.pubsub.Publish(topic, msg); err != nil {
		eb.logger.ErrorContext(ctx, "Failed to publish message",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to publish message to %s: %w", topic, err)
	}
	return nil
}

// Subscribe starts delivering messages on topic to handler until ctx is done
// or the bus is closed.
func (eb *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return ErrClosed
	}

	messages, err := eb.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	eb.logger.InfoContext(ctx, "Subscription started", slog.String("topic", topic))

	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		for msg := range messages {
			if err := handler(msg.Context(), msg); err != nil {
				eb.logger.ErrorContext(ctx, "Handler error",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.Any("error", err),
				)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

// Close stops the pub/sub and waits for subscriber loops to drain.
func (eb *EventBus) Close() error {
	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		return nil
	}
	eb.closed = true
	eb.mu.Unlock()

	err := eb.pubsub.Close()
	eb.wg.Wait()
	return err
}
