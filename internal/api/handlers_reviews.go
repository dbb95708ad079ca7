// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/models"
)

type starUpdate struct {
	Star int `json:"star" validate:"required,min=1,max=5"`
}

// UpdateReview handles PATCH /api/v1/reviews/{id}. Only the star value is
// editable.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var in starUpdate
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	review, err := h.catalog.UpdateReviewStar(r.Context(), who, urlParam(r, "id"), in.Star)
	respondResult(w, r, http.StatusOK, review, err)
}

// HideReview handles DELETE /api/v1/reviews/{id}.
func (h *Handler) HideReview(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	review, err := h.catalog.HideReview(r.Context(), who, urlParam(r, "id"))
	if err == nil && review.UserID != who.ID {
		h.recordAdmin(r, audit.EventTypeReviewHidden, "hide",
			&audit.Target{ID: review.ID, Type: "review"}, "Review hidden by moderator",
			map[string]interface{}{"place_id": review.PlaceID, "author_id": review.UserID})
	}
	respondResult(w, r, http.StatusOK, review, err)
}

type likeResult struct {
	Review *models.Review `json:"review"`
	Liked  bool           `json:"liked"`
}

// ToggleLike handles POST /api/v1/reviews/{id}/like.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	review, liked, err := h.catalog.ToggleLike(r.Context(), who, urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, likeResult{Review: review, Liked: liked})
}
