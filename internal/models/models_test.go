// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestTypedErrors_MatchSentinels(t *testing.T) {
	t.Parallel()

	cause := errors.New("badger: conflict")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidationError("star", "must be between 1 and 5"), ErrValidation},
		{"not_found", NewNotFoundError("plan", "p1"), ErrNotFound},
		{"conflict", &ConflictError{Kind: "place", ID: "x", Expected: 2, Actual: 3}, ErrConflict},
		{"repair", &RepairFailure{Operation: "create section", Attempts: 3, Cause: cause}, ErrRepair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("handler: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
		})
	}
}

func TestRepairFailure_UnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("store unavailable")
	err := fmt.Errorf("wrap: %w", &RepairFailure{Operation: "delete section", Attempts: 2, Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("expected RepairFailure to expose its cause")
	}
	if !IsRepairFailure(err) {
		t.Error("IsRepairFailure should report true")
	}
	if IsRepairFailure(cause) {
		t.Error("plain error is not a repair failure")
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	if err := ValidateID("plan_id", "2b0d3c6e-52a3-4c53-9a55-2f57f1b1c8a0"); err != nil {
		t.Errorf("valid UUID rejected: %v", err)
	}
	for _, bad := range []string{"", "abc", "12345"} {
		if err := ValidateID("plan_id", bad); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateID(%q) = %v, want validation error", bad, err)
		}
	}
}

func TestTimeWindow_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := (TimeWindow{Start: now, End: now.Add(time.Hour)}).Validate("window"); err != nil {
		t.Errorf("ordered window rejected: %v", err)
	}
	if err := (TimeWindow{Start: now, End: now.Add(-time.Hour)}).Validate("window"); err == nil {
		t.Error("inverted window accepted")
	}
	if err := (TimeWindow{End: now}).Validate("window"); err != nil {
		t.Errorf("open-ended window rejected: %v", err)
	}
}

func TestPlacePatch_Apply_KeepsAbsentFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &Place{Name: "Hoan Kiem", Address: "Hanoi", Status: StatusPublic, Latitude: 21.02}
	name := "Hồ Hoàn Kiếm"
	status := StatusClosed

	patch := PlacePatch{Name: &name, Status: &status}
	patch.Apply(p, now)

	if p.Name != name || p.Status != StatusClosed {
		t.Errorf("patched fields not applied: %+v", p)
	}
	if p.Address != "Hanoi" || p.Latitude != 21.02 {
		t.Errorf("absent fields changed: %+v", p)
	}
	if !p.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", p.UpdatedAt, now)
	}
}

func TestHistogram_TotalAndCount(t *testing.T) {
	t.Parallel()

	h := Histogram{0, 0, 1, 1, 3}
	if h.Total() != 5 {
		t.Errorf("Total = %d, want 5", h.Total())
	}
	if h.Count(5) != 3 || h.Count(0) != 0 || h.Count(6) != 0 {
		t.Errorf("Count mismatch: %v", h)
	}
}
