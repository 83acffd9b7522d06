package eventbus

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeRecorder) RecordEvent(_ context.Context, eventType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeRecorder) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := NewEventBus(discardLogger())
	t.Cleanup(func() { _ = bus.Close() })

	received := make(chan *message.Message, 1)
	require.NoError(t, bus.Subscribe(context.Background(), EventsTopic, func(_ context.Context, msg *message.Message) error {
		received <- msg
		return nil
	}))

	msg := message.NewMessage("", []byte(`{"name":"김철수"}`))
	msg.Metadata.Set(MetadataEventType, "member.added")
	require.NoError(t, bus.Publish(context.Background(), EventsTopic, msg))
	assert.NotEmpty(t, msg.UUID)

	select {
	case got := <-received:
		assert.Equal(t, "member.added", got.Metadata.Get(MetadataEventType))
		assert.JSONEq(t, `{"name":"김철수"}`, string(got.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus(discardLogger())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), EventsTopic, message.NewMessage("1", nil))
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, bus.Subscribe(context.Background(), EventsTopic, nil), ErrClosed)
}

func TestAuditHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	recorder := &fakeRecorder{}
	handler := NewAuditHandler(logger, recorder)

	msg := message.NewMessage("abc", []byte(`{}`))
	msg.Metadata.Set(MetadataEventType, "groups.allocated")
	msg.Metadata.Set(MetadataSessionID, "s-1")

	require.NoError(t, handler(context.Background(), msg))
	assert.Equal(t, []string{"groups.allocated"}, recorder.snapshot())
	assert.Contains(t, buf.String(), "event_type=groups.allocated")
	assert.Contains(t, buf.String(), "session_id=s-1")
}

func TestAuditHandler_ThroughBus(t *testing.T) {
	bus := NewEventBus(discardLogger())
	recorder := &fakeRecorder{}
	require.NoError(t, bus.Subscribe(context.Background(), EventsTopic, NewAuditHandler(discardLogger(), recorder)))

	for _, et := range []string{"member.added", "member.removed"} {
		msg := message.NewMessage("", nil)
		msg.Metadata.Set(MetadataEventType, et)
		require.NoError(t, bus.Publish(context.Background(), EventsTopic, msg))
	}

	require.Eventually(t, func() bool { return len(recorder.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, bus.Close())
	assert.ElementsMatch(t, []string{"member.added", "member.removed"}, recorder.snapshot())
}
