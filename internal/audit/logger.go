// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether events are recorded at all.
	Enabled bool

	// BufferSize is the size of the async write queue.
	BufferSize int

	// Retention is how long events are kept by Prune.
	Retention time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		BufferSize: 1000,
		Retention:  90 * 24 * time.Hour,
	}
}

// Observer is notified of every event after it has been stored.
type Observer interface {
	Notify(event *Event)
}

// Option configures a Logger.
type Option func(*Logger)

// WithObserver forwards stored events to o, e.g. a live admin feed.
func WithObserver(o Observer) Option {
	return func(l *Logger) {
		l.observers = append(l.observers, o)
	}
}

// Logger queues audit events and writes them asynchronously. A nil *Logger
// is valid and records nothing.
type Logger struct {
	config    Config
	store     Store
	events    chan *Event
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	now       func() time.Time
	observers []Observer
}

// NewLogger creates a logger and starts its writer goroutine.
func NewLogger(store Store, config Config, opts ...Option) *Logger {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	l := &Logger{
		config: config,
		store:  store,
		events: make(chan *Event, config.BufferSize),
		stop:   make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}

	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stop:
			for {
				select {
				case event := <-l.events:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.events:
			l.writeEvent(event)
		}
	}
}

func (l *Logger) writeEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		metrics.AuditEvents.WithLabelValues(string(event.Type), "failed").Inc()
		logging.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("Failed to save audit event")
		return
	}
	metrics.AuditEvents.WithLabelValues(string(event.Type), "saved").Inc()

	for _, o := range l.observers {
		o.Notify(event)
	}
}

// Log queues an event. It never blocks: when the queue is full the event is
// dropped.
func (l *Logger) Log(event *Event) {
	if l == nil || !l.config.Enabled {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	select {
	case <-l.stop:
		return
	default:
	}

	select {
	case l.events <- event:
	default:
		metrics.AuditEvents.WithLabelValues(string(event.Type), "dropped").Inc()
		logging.Warn().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("Audit event buffer full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.closeOnce.Do(func() {
		close(l.stop)
		l.wg.Wait()
	})
	return nil
}

// Query returns stored events matching filter, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if l == nil {
		return []Event{}, nil
	}
	return l.store.Query(ctx, filter)
}

// Prune deletes events older than the configured retention.
func (l *Logger) Prune(ctx context.Context) (int64, error) {
	if l == nil || l.config.Retention <= 0 {
		return 0, nil
	}
	n, err := l.store.Delete(ctx, l.now().Add(-l.config.Retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.Ctx(ctx).Info().Int64("count", n).Msg("Pruned expired audit events")
	}
	return n, nil
}

// LogAdminAction records a successful administrative change.
func (l *Logger) LogAdminAction(ctx context.Context, actor Actor, source Source, typ EventType, action string, target *Target, description string, metadata map[string]interface{}) {
	l.Log(&Event{
		Type:          typ,
		Severity:      SeverityInfo,
		Outcome:       OutcomeSuccess,
		Actor:         actor,
		Target:        target,
		Source:        source,
		Action:        action,
		Description:   description,
		Metadata:      mustJSON(metadata),
		RequestID:     logging.RequestIDFromContext(ctx),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	})
}

// LogAuthzDenied records a request rejected by the authorization policy.
func (l *Logger) LogAuthzDenied(ctx context.Context, actor Actor, source Source, resource, action string) {
	l.Log(&Event{
		Type:          EventTypeAuthzDenied,
		Severity:      SeverityWarning,
		Outcome:       OutcomeFailure,
		Actor:         actor,
		Target:        &Target{ID: resource, Type: "route"},
		Source:        source,
		Action:        action,
		Description:   "Authorization denied for " + action + " on " + resource,
		RequestID:     logging.RequestIDFromContext(ctx),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	})
}

// LogMaintenance records a sweep or backup outcome.
func (l *Logger) LogMaintenance(ctx context.Context, typ EventType, err error, metadata map[string]interface{}) {
	event := &Event{
		Type:          typ,
		Severity:      SeverityInfo,
		Outcome:       OutcomeSuccess,
		Actor:         SystemActor(),
		Action:        "run",
		Description:   string(typ) + " completed",
		Metadata:      mustJSON(metadata),
		CorrelationID: logging.CorrelationIDFromContext(ctx),
	}
	if err != nil {
		event.Severity = SeverityError
		event.Outcome = OutcomeFailure
		event.Description = string(typ) + " failed: " + err.Error()
	}
	l.Log(event)
}

func mustJSON(v map[string]interface{}) json.RawMessage {
	if len(v) == 0 {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
