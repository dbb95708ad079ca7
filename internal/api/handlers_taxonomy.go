// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/catalog"
)

// ListProvinces handles GET /api/v1/provinces. Hidden provinces are listed
// only for admins passing include_hidden=true.
func (h *Handler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.catalog.ListProvinces(r.Context(), isAdmin(r) && boolParam(r, "include_hidden"))
	respondResult(w, r, http.StatusOK, provinces, err)
}

// GetProvince handles GET /api/v1/provinces/{id}.
func (h *Handler) GetProvince(w http.ResponseWriter, r *http.Request) {
	province, err := h.catalog.GetProvince(r.Context(), urlParam(r, "id"))
	respondResult(w, r, http.StatusOK, province, err)
}

// CreateProvince handles POST /api/v1/provinces.
func (h *Handler) CreateProvince(w http.ResponseWriter, r *http.Request) {
	var in catalog.NewProvince
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	province, err := h.catalog.CreateProvince(r.Context(), in)
	if err == nil {
		h.recordTaxonomy(r, "create", province.ID, "province", province.Name)
	}
	respondResult(w, r, http.StatusCreated, province, err)
}

type recountResult struct {
	Changed int `json:"changed"`
}

// RecountProvince handles POST /api/v1/provinces/{id}/recount.
func (h *Handler) RecountProvince(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if _, err := h.catalog.GetProvince(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	n, err := h.catalog.RecountProvinces(r.Context(), id)
	if err == nil {
		h.recordAdmin(r, audit.EventTypeTaxonomyChanged, "recount",
			&audit.Target{ID: id, Type: "province"}, "Province place count recomputed",
			map[string]interface{}{"changed": n})
	}
	respondResult(w, r, http.StatusOK, recountResult{Changed: n}, err)
}

type labelInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context(), isAdmin(r) && boolParam(r, "include_hidden"))
	respondResult(w, r, http.StatusOK, categories, err)
}

// CreateCategory handles POST /api/v1/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in labelInput
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), in.Name)
	if err == nil {
		h.recordTaxonomy(r, "create", category.ID, "category", category.Name)
	}
	respondResult(w, r, http.StatusCreated, category, err)
}

// UpdateCategory handles PATCH /api/v1/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch catalog.LabelPatch
	if err := bind(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), urlParam(r, "id"), patch)
	if err == nil {
		h.recordTaxonomy(r, "update", category.ID, "category", category.Name)
	}
	respondResult(w, r, http.StatusOK, category, err)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context(), isAdmin(r) && boolParam(r, "include_hidden"))
	respondResult(w, r, http.StatusOK, tags, err)
}

// CreateTag handles POST /api/v1/tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in labelInput
	if err := bind(w, r, &in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	tag, err := h.catalog.CreateTag(r.Context(), in.Name)
	if err == nil {
		h.recordTaxonomy(r, "create", tag.ID, "tag", tag.Name)
	}
	respondResult(w, r, http.StatusCreated, tag, err)
}

// UpdateTag handles PATCH /api/v1/tags/{id}.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var patch catalog.LabelPatch
	if err := bind(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}
	tag, err := h.catalog.UpdateTag(r.Context(), urlParam(r, "id"), patch)
	if err == nil {
		h.recordTaxonomy(r, "update", tag.ID, "tag", tag.Name)
	}
	respondResult(w, r, http.StatusOK, tag, err)
}

func (h *Handler) recordTaxonomy(r *http.Request, action, id, kind, name string) {
	h.recordAdmin(r, audit.EventTypeTaxonomyChanged, action,
		&audit.Target{ID: id, Type: kind}, kind+" "+action+"d: "+name, nil)
}
