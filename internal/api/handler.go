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
	"github.com/tomtom215/itinera/internal/backup"
	"github.com/tomtom215/itinera/internal/catalog"
	"github.com/tomtom215/itinera/internal/itinerary"
	"github.com/tomtom215/itinera/internal/reconcile"
	ws "github.com/tomtom215/itinera/internal/websocket"
)

// Pinger reports storage health.
type Pinger interface {
	Ping() error
}

// Handler serves the REST API.
type Handler struct {
	catalog    *catalog.Service
	itinerary  *itinerary.Manager
	reconciler *reconcile.Reconciler
	store      Pinger
	startTime  time.Time

	// Optional components. A nil audit logger records nothing; nil backups
	// or events make their endpoints answer 503.
	audit       *audit.Logger
	backups     *backup.Manager
	events      *ws.Hub
	feedOrigins []string
}

// NewHandler creates a Handler.
func NewHandler(cat *catalog.Service, it *itinerary.Manager, rec *reconcile.Reconciler, store Pinger) *Handler {
	return &Handler{
		catalog:    cat,
		itinerary:  it,
		reconciler: rec,
		store:      store,
		startTime:  time.Now(),
	}
}

// ConfigureAudit sets the audit logger for administrative actions.
func (h *Handler) ConfigureAudit(l *audit.Logger) {
	h.audit = l
}

// ConfigureBackups enables the snapshot endpoints.
func (h *Handler) ConfigureBackups(m *backup.Manager) {
	h.backups = m
}

// ConfigureEvents enables the admin event feed. origins lists the allowed
// Origin header values; "*" allows any.
func (h *Handler) ConfigureEvents(hub *ws.Hub, origins []string) {
	h.events = hub
	h.feedOrigins = origins
}

// recordAdmin writes an audit event for a successful change made by the caller.
func (h *Handler) recordAdmin(r *http.Request, typ audit.EventType, action string, target *audit.Target, description string, metadata map[string]interface{}) {
	if h.audit == nil {
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())
	h.audit.LogAdminAction(r.Context(), audit.ActorFromIdentity(id), audit.SourceFromRequest(r),
		typ, action, target, description, metadata)
}
