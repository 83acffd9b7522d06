package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/outing-bot/app/eventbus"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
)

// Publisher delivers event messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
}

type entry struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// ManagerConfig wires a Manager's collaborators. Nil fields get no-op or
// default implementations.
type ManagerConfig struct {
	TTL       time.Duration
	Publisher Publisher
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Tracer    trace.Tracer
	Clock     Clock
}

// Manager owns every live session. Commands on one session run one at a
// time; sessions idle longer than the TTL are dropped on the next create.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	roster   memberdomain.Directory

	ttl       time.Duration
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
	clock     Clock
}

// NewManager creates a manager whose sessions start from roster.
func NewManager(roster memberdomain.Directory, cfg ManagerConfig) *Manager {
	m := &Manager{
		sessions:  make(map[string]*entry),
		roster:    roster.Clone(),
		ttl:       cfg.TTL,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    cfg.Tracer,
		clock:     cfg.Clock,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.clock == nil {
		m.clock = RealClock{}
	}
	return m
}

// Now reads the manager's clock.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Roster returns a copy of the directory new sessions start from.
func (m *Manager) Roster() memberdomain.Directory {
	return m.roster.Clone()
}

// Create starts a new session and returns its id and initial state.
func (m *Manager) Create(ctx context.Context) (string, State) {
	id := uuid.NewString()
	now := m.clock.Now()
	state := NewState(m.roster.Clone())

	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[id] = &entry{state: state, lastSeen: now}
	n := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(n)
	m.logger.InfoContext(ctx, "Session created",
		slog.String("session_id", id),
		slog.Int("members", state.Directory.Len()),
	)
	return id, state
}

// Get returns the current snapshot of a session.
func (m *Manager) Get(id string) (State, error) {
	e, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// Ensure returns the session for id, creating a new one when id is empty,
// unknown or expired. created reports whether a new session was made.
func (m *Manager) Ensure(ctx context.Context, id string) (sid string, created bool) {
	if id != "" {
		if _, err := m.lookup(id); err == nil {
			return id, false
		}
	}
	sid, _ = m.Create(ctx)
	return sid, true
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reset starts the session over from the roster.
func (m *Manager) Reset(ctx context.Context, id string) (State, error) {
	return m.Dispatch(ctx, id, ResetSession{Directory: m.roster})
}

// Dispatch applies cmd to the session and publishes the resulting events.
// On error the session is unchanged and its current snapshot is returned.
func (m *Manager) Dispatch(ctx context.Context, id string, cmd Command) (state State, err error) {
	operation := cmd.Name()

	var span trace.Span
	if m.tracer != nil {
		ctx, span = m.tracer.Start(ctx, operation, trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("session_id", id),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	m.metrics.RecordOperationAttempt(ctx, operation)
	start := time.Now()
	defer func() {
		m.metrics.RecordOperationDuration(ctx, operation, time.Since(start))
	}()

	m.logger.InfoContext(ctx, operation+" triggered",
		slog.String("operation", operation),
		slog.String("session_id", id),
		slog.String("correlation_id", CorrelationID(ctx)),
	)

	e, err := m.lookup(id)
	if err != nil {
		m.metrics.RecordOperationFailure(ctx, operation)
		span.RecordError(err)
		return State{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.state

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operation, r)
			m.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operation),
				slog.String("session_id", id),
				slog.Any("error", err),
			)
			m.metrics.RecordOperationFailure(ctx, operation)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			state = prev
		}
	}()

	next, events, err := cmd.Apply(prev)
	if err != nil {
		m.logger.WarnContext(ctx, operation+" rejected",
			slog.String("operation", operation),
			slog.String("session_id", id),
			slog.Any("error", err),
		)
		m.metrics.RecordOperationFailure(ctx, operation)
		span.RecordError(err)
		return prev, err
	}

	next.Version = prev.Version + 1
	e.state = next
	m.metrics.RecordOperationSuccess(ctx, operation)
	m.publish(ctx, id, events)

	m.logger.InfoContext(ctx, operation+" completed",
		slog.String("operation", operation),
		slog.String("session_id", id),
		slog.Uint64("version", next.Version),
		slog.Int("events", len(events)),
	)
	return next, nil
}

func (m *Manager) publish(ctx context.Context, id string, events []Event) {
	if m.publisher == nil {
		return
	}
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to marshal event",
				slog.String("event_type", ev.Type),
				slog.Any("error", err),
			)
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(eventbus.MetadataEventType, ev.Type)
		msg.Metadata.Set(eventbus.MetadataSessionID, id)
		msg.Metadata.Set(eventbus.MetadataCorrelationID, CorrelationID(ctx))

		if err := m.publisher.Publish(ctx, eventbus.EventsTopic, msg); err != nil {
			m.logger.ErrorContext(ctx, "Failed to publish event",
				slog.String("event_type", ev.Type),
				slog.String("session_id", id),
				slog.Any("error", err),
			)
		}
	}
}

func (m *Manager) lookup(id string) (*entry, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(e, now) {
		delete(m.sessions, id)
		m.metrics.SetActiveSessions(len(m.sessions))
		return nil, ErrSessionNotFound
	}
	e.lastSeen = now
	return e, nil
}

func (m *Manager) pruneLocked(now time.Time) {
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}
