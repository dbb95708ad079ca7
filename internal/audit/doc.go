// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package audit records administrative and security-relevant actions.
//
// Events are queued by Logger.Log and written by a single background
// goroutine, so recording never blocks a request. When the buffer is full
// the event is dropped with a warning. Close drains the queue.
//
// BadgerStore keeps events in the main database under the "audit:" prefix,
// keyed by timestamp so queries walk newest first and retention deletes a
// contiguous key range:
//
//	audit:<unix nanos, 8 bytes big-endian>:<event id>
//
// Recorded actions:
//
//	place.created, place.updated, place.hidden
//	review.hidden (by an admin)
//	taxonomy.changed (province, category, tag)
//	user.status_changed
//	maintenance.sweep, maintenance.backup
//	authz.denied
package audit
