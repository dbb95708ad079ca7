// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/models"
)

const maxAuditLimit = 1000

// ListAuditEvents handles GET /api/v1/admin/audit.
//
// Query parameters: type (repeatable), actor_id, target_id, since and until
// (RFC 3339), limit (default 100, max 1000). Events are newest first.
func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit logging is disabled", nil)
		return
	}

	q := r.URL.Query()
	filter := audit.QueryFilter{
		ActorID:  q.Get("actor_id"),
		TargetID: q.Get("target_id"),
	}
	for _, t := range q["type"] {
		filter.Types = append(filter.Types, audit.EventType(t))
	}

	var err error
	if filter.Since, err = timeParam(r, "since"); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if filter.Until, err = timeParam(r, "until"); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		respondServiceError(w, r, models.NewValidationError("until", "must not be before since"))
		return
	}

	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if limit != nil {
		if *limit > maxAuditLimit {
			respondServiceError(w, r, models.NewValidationError("limit", "must be at most %d", maxAuditLimit))
			return
		}
		filter.Limit = *limit
	}

	events, err := h.audit.Query(r.Context(), filter)
	respondResult(w, r, http.StatusOK, events, err)
}

func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, models.NewValidationError(name, "must be an RFC 3339 timestamp")
	}
	return &t, nil
}
