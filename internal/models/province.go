// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package models

import "time"

// Province groups places geographically. PlaceCount is derived from the
// non-hidden places referencing the province and is never incremented directly.
type Province struct {
	Meta
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	Image      string    `json:"image,omitempty"`
	Hidden     bool      `json:"hidden"`
	PlaceCount int       `json:"place_count"`
	CountedAt  time.Time `json:"counted_at"`
}

// Category classifies places (museum, beach, ...).
type Category struct {
	Meta
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

// Tag is a free-form label attached to places.
type Tag struct {
	Meta
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}
