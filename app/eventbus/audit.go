package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventRecorder counts observed events.
type EventRecorder interface {
	RecordEvent(ctx context.Context, eventType string)
}

// NewAuditHandler logs every event and feeds recorder.
func NewAuditHandler(logger *slog.Logger, recorder EventRecorder) Handler {
	return func(ctx context.Context, msg *message.Message) error {
		eventType := msg.Metadata.Get(MetadataEventType)
		logger.InfoContext(ctx, "Session event",
			slog.String("event_type", eventType),
			slog.String("session_id", msg.Metadata.Get(MetadataSessionID)),
			slog.String("correlation_id", msg.Metadata.Get(MetadataCorrelationID)),
			slog.String("message_id", msg.UUID),
			slog.String("payload", string(msg.Payload)),
		)
		if recorder != nil {
			recorder.RecordEvent(ctx, eventType)
		}
		return nil
	}
}
