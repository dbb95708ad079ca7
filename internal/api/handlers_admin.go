// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/logging"
)

type userStatus struct {
	Disabled bool `json:"disabled"`
}

// SetUserStatus handles PUT /api/v1/admin/users/{id}/status.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var in userStatus
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	user, err := h.catalog.SetUserDisabled(r.Context(), urlParam(r, "id"), in.Disabled)
	if err == nil {
		action := "enable"
		if in.Disabled {
			action = "disable"
		}
		h.recordAdmin(r, audit.EventTypeUserStatusChanged, action,
			&audit.Target{ID: user.ID, Type: "user"}, "User account "+action+"d", nil)
	}
	respondResult(w, r, http.StatusOK, user, err)
}

// RunSweep handles POST /api/v1/admin/sweep. It runs one reconciliation pass
// synchronously and returns its report; a partially failed pass is a 500
// with the report in the error details.
func (h *Handler) RunSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Run(r.Context())
	if h.audit != nil {
		id, _ := auth.IdentityFromContext(r.Context())
		event := &audit.Event{
			Type:        audit.EventTypeSweepRun,
			Severity:    audit.SeverityInfo,
			Outcome:     audit.OutcomeSuccess,
			Actor:       audit.ActorFromIdentity(id),
			Source:      audit.SourceFromRequest(r),
			Action:      "run",
			Description: "On-demand reconciliation pass",
			RequestID:   logging.RequestIDFromContext(r.Context()),
		}
		if err != nil {
			event.Severity = audit.SeverityError
			event.Outcome = audit.OutcomeFailure
			event.Description = "On-demand reconciliation pass failed: " + err.Error()
		}
		h.audit.Log(event)
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("On-demand reconciliation failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "reconciliation pass failed", report)
		return
	}
	respondOK(w, r, http.StatusOK, report)
}

// LastSweep handles GET /api/v1/admin/sweep.
func (h *Handler) LastSweep(w http.ResponseWriter, r *http.Request) {
	last := h.reconciler.Last()
	if last == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "no reconciliation pass has run yet", nil)
		return
	}
	respondOK(w, r, http.StatusOK, last)
}

// CacheStats handles GET /api/v1/admin/cache.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, http.StatusOK, h.catalog.CacheStats())
}

type healthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Truncate(time.Second).String()
	if err := h.store.Ping(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
		respondJSON(w, r, http.StatusServiceUnavailable, &APIResponse{
			Status: "error",
			Data:   healthStatus{Status: "unhealthy", Uptime: uptime},
			Error:  &APIError{Code: ErrCodeUnavailable, Message: "storage unavailable"},
		})
		return
	}
	respondOK(w, r, http.StatusOK, healthStatus{Status: "healthy", Uptime: uptime})
}
