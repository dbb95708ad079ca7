// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"

	"github.com/tomtom215/itinera/internal/itinerary"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/validation"
)

// ListPlans handles GET /api/v1/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	plans, err := h.itinerary.ListPlans(r.Context(), who)
	respondResult(w, r, http.StatusOK, plans, err)
}

// CreatePlan handles POST /api/v1/plans.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var in itinerary.NewPlan
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	plan, err := h.itinerary.CreatePlan(r.Context(), who, in)
	respondResult(w, r, http.StatusCreated, plan, err)
}

// GetPlan handles GET /api/v1/plans/{id}.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	plan, err := h.itinerary.GetPlan(r.Context(), who, urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, plan, err)
}

// UpdatePlan handles PATCH /api/v1/plans/{id}.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var patch models.PlanPatch
	if err := bind(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}
	plan, err := h.itinerary.UpdatePlan(r.Context(), who, urlParam(r, "id"), patch)
	respondResult(w, r, http.StatusOK, plan, err)
}

// DeletePlan handles DELETE /api/v1/plans/{id}.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.itinerary.DeletePlan(r.Context(), who, urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSections handles GET /api/v1/plans/{id}/sections.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	sections, err := h.itinerary.ListSections(r.Context(), who, urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, sections, err)
}

// CreateSection handles POST /api/v1/plans/{id}/sections.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var in itinerary.NewSection
	if err := decodeBody(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	in.PlanID = urlParam(r, "id")
	if err := validation.ValidateStruct(&in); err != nil {
		respondServiceError(w, r, err)
		return
	}

	section, err := h.itinerary.CreateSection(r.Context(), who, in)
	respondResult(w, r, http.StatusCreated, section, err)
}

// GetSection handles GET /api/v1/sections/{id}.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	section, err := h.itinerary.GetSection(r.Context(), who, urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, section, err)
}

// UpdateSection handles PATCH /api/v1/sections/{id}.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var patch models.SectionPatch
	if err := bind(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}
	section, err := h.itinerary.UpdateSection(r.Context(), who, urlParam(r, "id"), patch)
	respondResult(w, r, http.StatusOK, section, err)
}

// DeleteSection handles DELETE /api/v1/sections/{id}.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	err := h.itinerary.DeleteSection(r.Context(), who, urlParam(r, "id"))
	if err == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondResult(w, r, http.StatusNoContent, nil, err)
}

type waypointInput struct {
	PlaceID string `json:"place_id" validate:"required,uuid"`
}

// AddWaypoint handles POST /api/v1/sections/{id}/waypoints. It answers 201
// when the waypoint was added and 200 when it was already there.
func (h *Handler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	var in waypointInput
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	section, added, err := h.itinerary.AddWaypoint(r.Context(), who, urlParam(r, "id"), in.PlaceID)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondResult(w, r, status, section, err)
}

// RemoveWaypoint handles DELETE /api/v1/sections/{id}/waypoints/{placeID}.
func (h *Handler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	section, err := h.itinerary.RemoveWaypoint(r.Context(), who, urlParam(r, "id"), urlParam(r, "placeID"))
	respondResult(w, r, http.StatusOK, section, err)
}

// MarkVisited handles POST /api/v1/sections/{id}/waypoints/{placeID}/visit.
func (h *Handler) MarkVisited(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(w, r)
	if !ok {
		return
	}
	section, err := h.itinerary.MarkVisited(r.Context(), who, urlParam(r, "id"), urlParam(r, "placeID"))
	respondResult(w, r, http.StatusOK, section, err)
}
