// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/itinera/internal/logging"
	ws "github.com/tomtom215/itinera/internal/websocket"
)

// EventFeed handles GET /api/v1/admin/events, upgrading to a websocket that
// streams audit events as they are stored.
func (h *Handler) EventFeed(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "event feed is disabled", nil)
		return
	}
	who, ok := caller(w, r)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkFeedOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Event feed upgrade failed")
		return
	}

	ws.NewClient(h.events, conn, who.ID).Start()
}

// checkFeedOrigin accepts only origins allowed by the CORS configuration.
// Browsers always send Origin on websocket handshakes, so a missing header
// is rejected.
func (h *Handler) checkFeedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("Event feed rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.feedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("Event feed rejected: origin not allowed")
	return false
}
