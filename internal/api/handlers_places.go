// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/catalog"
	"github.com/tomtom215/itinera/internal/discovery"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/validation"
)

// ListPlaces handles GET /api/v1/places.
//
// Query parameters: q, category_id, province_id, tag_id (repeatable),
// set (popular|best), sort (rating|views), limit, include_non_public (admin).
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	query := discovery.Query{
		Text:             q.Get("q"),
		CategoryID:       q.Get("category_id"),
		ProvinceID:       q.Get("province_id"),
		TagIDs:           q["tag_id"],
		Set:              discovery.Set(q.Get("set")),
		Sort:             discovery.SortKey(q.Get("sort")),
		Limit:            limit,
		IncludeNonPublic: isAdmin(r) && boolParam(r, "include_non_public"),
	}

	places, err := h.catalog.ListPlaces(r.Context(), query)
	respondResult(w, r, http.StatusOK, places, err)
}

// PopularPlaces handles GET /api/v1/places/popular.
func (h *Handler) PopularPlaces(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	places, err := h.catalog.PopularPlaces(r.Context(), limit)
	respondResult(w, r, http.StatusOK, places, err)
}

// BestPlaces handles GET /api/v1/places/best.
func (h *Handler) BestPlaces(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	places, err := h.catalog.BestPlaces(r.Context(), limit)
	respondResult(w, r, http.StatusOK, places, err)
}

// SearchPlaces handles GET /api/v1/places/search?q=.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	places, err := h.catalog.SearchPlaces(r.Context(), r.URL.Query().Get("q"), limit)
	respondResult(w, r, http.StatusOK, places, err)
}

// GetPlace handles GET /api/v1/places/{id}. Every call counts as a view and,
// for signed-in callers, lands in their recently viewed list.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	var who *models.Identity
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		who = &id
	}
	place, err := h.catalog.ViewPlace(r.Context(), who, urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, place, err)
}

// NearbyPlaces handles GET /api/v1/places/{id}/nearby.
func (h *Handler) NearbyPlaces(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	places, err := h.catalog.NearbyPlaces(r.Context(), urlParam(r, "id"), limit)
	respondResult(w, r, http.StatusOK, places, err)
}

// CreatePlace handles POST /api/v1/places.
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewPlace
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	place, err := h.catalog.CreatePlace(r.Context(), in)
	if err == nil {
		h.recordAdmin(r, audit.EventTypePlaceCreated, "create",
			&audit.Target{ID: place.ID, Type: "place"}, "Place created: "+place.Name, nil)
	}
	respondResult(w, r, http.StatusCreated, place, err)
}

// UpdatePlace handles PATCH /api/v1/places/{id}.
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var patch models.PlacePatch
	if err := bind(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}
	place, err := h.catalog.UpdatePlace(r.Context(), urlParam(r, "id"), patch)
	if err == nil {
		h.recordAdmin(r, audit.EventTypePlaceUpdated, "update",
			&audit.Target{ID: place.ID, Type: "place"}, "Place updated: "+place.Name,
			map[string]interface{}{"status": place.Status})
	}
	respondResult(w, r, http.StatusOK, place, err)
}

// HidePlace handles DELETE /api/v1/places/{id}. Places are never removed,
// only made private.
func (h *Handler) HidePlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.catalog.HidePlace(r.Context(), urlParam(r, "id"))
	if err == nil {
		h.recordAdmin(r, audit.EventTypePlaceHidden, "hide",
			&audit.Target{ID: place.ID, Type: "place"}, "Place hidden: "+place.Name, nil)
	}
	respondResult(w, r, http.StatusOK, place, err)
}

// ListReviews handles GET /api/v1/places/{id}/reviews.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalog.ListReviews(r.Context(), urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, reviews, err)
}

// CreateReview handles POST /api/v1/places/{id}/reviews.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var in catalog.NewReview
	if err := decodeBody(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	in.PlaceID = urlParam(r, "id")
	if err := validation.ValidateStruct(&in); err != nil {
		respondServiceError(w, r, err)
		return
	}

	review, err := h.catalog.CreateReview(r.Context(), who, in)
	respondResult(w, r, http.StatusCreated, review, err)
}
