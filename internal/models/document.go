// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is implemented by every persisted aggregate. The version is
// owned by the store and incremented on every successful write.
type Document interface {
	DocID() string
	DocVersion() uint64
	SetDocVersion(v uint64)
	Touch(now time.Time)
}

// Meta carries the identity, version and timestamps shared by all aggregates.
type Meta struct {
	ID        string    `json:"id"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMeta returns a Meta with a fresh UUID and both timestamps set to now.
func NewMeta(now time.Time) Meta {
	return Meta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

func (m *Meta) DocID() string          { return m.ID }
func (m *Meta) DocVersion() uint64     { return m.Version }
func (m *Meta) SetDocVersion(v uint64) { m.Version = v }

// Touch sets UpdatedAt, and CreatedAt if it was never set.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// ValidateID rejects identifiers that are not UUIDs.
func ValidateID(field, id string) error {
	if id == "" {
		return NewValidationError(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError(field, "malformed identifier %q", id)
	}
	return nil
}

// TimeWindow is a closed [Start, End] interval.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects windows that end before they start.
func (w TimeWindow) Validate(field string) error {
	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		return NewValidationError(field, "end must not be before start")
	}
	return nil
}
