// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package audit

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/models"
)

// EventType categorizes audit events.
type EventType string

const (
	EventTypePlaceCreated      EventType = "place.created"
	EventTypePlaceUpdated      EventType = "place.updated"
	EventTypePlaceHidden       EventType = "place.hidden"
	EventTypeReviewHidden      EventType = "review.hidden"
	EventTypeTaxonomyChanged   EventType = "taxonomy.changed"
	EventTypeUserStatusChanged EventType = "user.status_changed"
	EventTypeSweepRun          EventType = "maintenance.sweep"
	EventTypeBackup            EventType = "maintenance.backup"
	EventTypeAuthzDenied       EventType = "authz.denied"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one recorded action.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`
	Actor     Actor     `json:"actor"`
	Target    *Target   `json:"target,omitempty"`
	Source    Source    `json:"source"`

	// Action is the verb, e.g. "create" or "hide".
	Action      string `json:"action"`
	Description string `json:"description"`

	Metadata      json.RawMessage `json:"metadata,omitempty"`
	RequestID     string          `json:"request_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// Actor is who performed the action.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Target is the object of the action.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Source is where the request came from.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events recorded before olderThan.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter selects events. Zero fields match everything.
type QueryFilter struct {
	Types    []EventType `json:"types,omitempty"`
	ActorID  string      `json:"actor_id,omitempty"`
	TargetID string      `json:"target_id,omitempty"`
	Since    *time.Time  `json:"since,omitempty"`
	Until    *time.Time  `json:"until,omitempty"`

	// Limit caps the result; results are newest first.
	Limit int `json:"limit,omitempty"`
}

// DefaultQueryLimit applies when a filter has no limit.
const DefaultQueryLimit = 100

func (f QueryFilter) matches(e *Event) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, e.Type) {
		return false
	}
	if f.ActorID != "" && e.Actor.ID != f.ActorID {
		return false
	}
	if f.TargetID != "" && (e.Target == nil || e.Target.ID != f.TargetID) {
		return false
	}
	return true
}

// ActorFromIdentity builds an Actor for an authenticated caller.
func ActorFromIdentity(id models.Identity) Actor {
	return Actor{ID: id.ID, Role: id.Role}
}

// SystemActor is the actor of scheduled maintenance.
func SystemActor() Actor {
	return Actor{ID: "system", Role: "system"}
}

// SourceFromRequest captures the client address and user agent. The
// address is taken from RemoteAddr, which the RealIP middleware has already
// resolved.
func SourceFromRequest(r *http.Request) Source {
	return Source{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
