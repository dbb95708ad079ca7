// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package recency implements the per-user "recently viewed" ledger: a
// bounded, most-recent-first list of places, unique by place.
//
// Recording a place removes any existing entry for it, prepends the new
// entry and then truncates from the tail down to capacity. Length never
// exceeds capacity and the newest entry is always first.
//
//	l, _ := recency.New(5, user.RecentSearch)
//	l.Record(placeID, now)
//	user.RecentSearch = l.Entries()
//
// A Ledger is a value owned by one User document and is not safe for
// concurrent use; callers mutate it inside a single store Update.
package recency

import (
	"time"

	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 5

// Outcome describes what a Record call did.
type Outcome struct {
	// Promoted is true when the place was already present and moved to the front.
	Promoted bool
	// Evicted holds the place dropped from the tail, if any.
	Evicted string
}

// Ledger is a bounded dedup-and-promote deque of recent entries.
type Ledger struct {
	capacity int
	entries  []models.RecentEntry
}

// New returns a ledger with the given capacity seeded from existing entries.
// Seed entries are taken front to back: later duplicates are dropped and the
// list is cut from the tail to capacity, so a ledger stored under a larger
// capacity loads deterministically.
func New(capacity int, existing []models.RecentEntry) (*Ledger, error) {
	if capacity < 1 {
		return nil, models.NewValidationError("capacity", "must be at least 1, got %d", capacity)
	}

	l := &Ledger{capacity: capacity, entries: make([]models.RecentEntry, 0, capacity+1)}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		if _, dup := seen[e.PlaceID]; dup || e.PlaceID == "" {
			continue
		}
		seen[e.PlaceID] = struct{}{}
		l.entries = append(l.entries, e)
		if len(l.entries) == capacity {
			break
		}
	}
	return l, nil
}

// Capacity returns the maximum number of entries.
func (l *Ledger) Capacity() int { return l.capacity }

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Record moves placeID to the front with timestamp now.
//
// If now is not after the current front entry (clock skew between
// replicas, or two records in one clock tick), the new entry is stamped one
// nanosecond after the front so timestamps stay strictly descending.
func (l *Ledger) Record(placeID string, now time.Time) Outcome {
	var out Outcome

	if i := l.indexOf(placeID); i >= 0 {
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		out.Promoted = true
	}

	if len(l.entries) > 0 && !now.After(l.entries[0].ViewedAt) {
		now = l.entries[0].ViewedAt.Add(time.Nanosecond)
	}

	l.entries = append(l.entries, models.RecentEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = models.RecentEntry{PlaceID: placeID, ViewedAt: now}

	if len(l.entries) > l.capacity {
		out.Evicted = l.entries[len(l.entries)-1].PlaceID
		l.entries = l.entries[:l.capacity]
	}

	switch {
	case out.Promoted:
		metrics.LedgerRecords.WithLabelValues("promoted").Inc()
	case out.Evicted != "":
		metrics.LedgerRecords.WithLabelValues("evicted").Inc()
	default:
		metrics.LedgerRecords.WithLabelValues("inserted").Inc()
	}
	return out
}

// Entries returns a copy of the entries, most recent first.
func (l *Ledger) Entries() []models.RecentEntry {
	out := make([]models.RecentEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// PlaceIDs returns the place references, most recent first.
func (l *Ledger) PlaceIDs() []string {
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.PlaceID
	}
	return ids
}

func (l *Ledger) indexOf(placeID string) int {
	for i, e := range l.entries {
		if e.PlaceID == placeID {
			return i
		}
	}
	return -1
}

// Record is the functional form used by callers that hold the raw slice:
// it returns the new sequence after recording placeID at now.
func Record(entries []models.RecentEntry, placeID string, now time.Time, capacity int) ([]models.RecentEntry, error) {
	if placeID == "" {
		return nil, models.NewValidationError("place_id", "is required")
	}
	l, err := New(capacity, entries)
	if err != nil {
		return nil, err
	}
	l.Record(placeID, now)
	return l.Entries(), nil
}
