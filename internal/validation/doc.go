// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package validation validates decoded request bodies with
// go-playground/validator v10.
//
// Struct tags cover shape (required fields, identifier format, lengths,
// coordinate ranges). Rules that need stored state, such as whether a
// referenced province exists, stay in the service packages.
//
//	type NewReview struct {
//	    PlaceID string `json:"place_id" validate:"required,uuid"`
//	    Star    int    `json:"star" validate:"required,min=1,max=5"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // errors.Is(err, models.ErrValidation) == true
//	}
package validation
