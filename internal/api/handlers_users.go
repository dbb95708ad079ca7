// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import "net/http"

// ListFavorites handles GET /api/v1/me/favorites.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	places, err := h.catalog.ListFavorites(r.Context(), who)
	respondResult(w, r, http.StatusOK, places, err)
}

// AddFavorite handles PUT /api/v1/me/favorites/{placeID}. Adding a place
// twice is not an error.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ids, err := h.catalog.AddFavorite(r.Context(), who, urlParam(r, "placeID"))
	respondResult(w, r, http.StatusOK, ids, err)
}

// RemoveFavorite handles DELETE /api/v1/me/favorites/{placeID}.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	ids, err := h.catalog.RemoveFavorite(r.Context(), who, urlParam(r, "placeID"))
	respondResult(w, r, http.StatusOK, ids, err)
}

// RecentPlaces handles GET /api/v1/me/recent, most recent first.
func (h *Handler) RecentPlaces(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	entries, err := h.catalog.RecentPlaces(r.Context(), who)
	respondResult(w, r, http.StatusOK, entries, err)
}
