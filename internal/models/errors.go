// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching. Each typed error below unwraps to one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("concurrent modification")
	ErrRepair     = errors.New("consistency repair failed")
)

// ValidationError is returned before any write when input is malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that is absent or hidden.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ConflictError reports a failed version check. The caller should reload and retry.
type ConflictError struct {
	Kind     string
	ID       string
	Expected uint64
	Actual   uint64
}

func (e *ConflictError) Error() string {
	if e.Expected == 0 && e.Actual == 0 {
		return fmt.Sprintf("%s %q was modified concurrently", e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %q was modified concurrently (expected version %d, found %d)",
		e.Kind, e.ID, e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// RepairFailure reports that the primary write succeeded but a secondary
// consistency step did not, even after retries. The reconciliation sweep
// finishes the job later.
type RepairFailure struct {
	Operation string
	Attempts  int
	Cause     error
}

func (e *RepairFailure) Error() string {
	return fmt.Sprintf("%s: repair failed after %d attempts: %v", e.Operation, e.Attempts, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *RepairFailure) Unwrap() []error { return []error{ErrRepair, e.Cause} }

// IsRepairFailure reports whether err is (or wraps) a RepairFailure.
func IsRepairFailure(err error) bool {
	var rf *RepairFailure
	return errors.As(err, &rf)
}
