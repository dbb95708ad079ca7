// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/auth"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/validation"
)

const maxBodyBytes = 1 << 20

// decodeBody decodes a JSON request body into dst. Unknown fields are
// rejected so typos in patch documents do not silently do nothing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.NewValidationError("body", "invalid JSON: %v", err)
	}
	return nil
}

// bind decodes and validates a request body.
func bind(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeBody(w, r, dst); err != nil {
		return err
	}
	return validation.ValidateStruct(dst)
}

// limitParam parses the optional "limit" query parameter.
func limitParam(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, models.NewValidationError("limit", "must be a non-negative integer")
	}
	return &n, nil
}

func boolParam(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// caller returns the authenticated identity. Routes that need one are
// guarded by the authorization policy, so a missing identity here is a
// routing mistake and is reported as unauthorized.
func caller(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required", nil)
	}
	return id, ok
}

func isAdmin(r *http.Request) bool {
	id, ok := auth.IdentityFromContext(r.Context())
	return ok && id.IsAdmin()
}
