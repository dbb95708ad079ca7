// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/validation"
)

// APIResponse is the envelope of every API response.
type APIResponse struct {
	// Status is "success", "partial" or "error".
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Count     *int      `json:"count,omitempty"`
}

// APIError describes a failure, or the pending part of a partial success.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRepairPending   = "REPAIR_PENDING"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	resp.Metadata.Timestamp = time.Now().UTC()
	resp.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondOK writes data with the given success status. Slices get a count.
func respondOK(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	resp := &APIResponse{Status: "success", Data: data}
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice {
		n := v.Len()
		resp.Metadata.Count = &n
	}
	respondJSON(w, r, status, resp)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	respondJSON(w, r, status, &APIResponse{
		Status: "error",
		Error:  &APIError{Code: code, Message: message, Details: details},
	})
}

// respondResult writes the outcome of a service call. A RepairFailure means
// the primary write stood: the result is returned with 202 and a
// REPAIR_PENDING notice because the reconciliation sweep finishes the job.
func respondResult(w http.ResponseWriter, r *http.Request, status int, data interface{}, err error) {
	if err == nil {
		respondOK(w, r, status, data)
		return
	}

	var rf *models.RepairFailure
	if errors.As(err, &rf) {
		logging.Ctx(r.Context()).Warn().
			Err(err).
			Str("operation", rf.Operation).
			Msg("Primary write succeeded, consistency repair deferred")
		respondJSON(w, r, http.StatusAccepted, &APIResponse{
			Status: "partial",
			Data:   data,
			Error: &APIError{
				Code:    ErrCodeRepairPending,
				Message: "the change was saved; related records will be updated shortly",
				Details: map[string]string{"operation": rf.Operation},
			},
		})
		return
	}

	respondServiceError(w, r, err)
}

// respondServiceError maps domain errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr   *validation.RequestValidationError
		valErr   *models.ValidationError
		notFound *models.NotFoundError
	)

	switch {
	case errors.As(err, &reqErr):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, reqErr.Error(), reqErr.Fields)
	case errors.As(err, &valErr):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, valErr.Error(),
			[]validation.FieldError{{Field: valErr.Field, Message: valErr.Message}})
	case errors.Is(err, models.ErrValidation):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.As(err, &notFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, notFound.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "not found", nil)
	case errors.Is(err, models.ErrConflict):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "the record was modified concurrently, reload and retry", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal server error", nil)
	}
}
