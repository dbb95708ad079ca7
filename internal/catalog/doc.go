// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package catalog is the service layer for places and everything hanging off
// them: reviews and their rating summary, user favorites and recently viewed
// lists, provinces, categories and tags.
//
// Writes that touch two documents follow the same child-first rule as the
// itinerary package. A review is stored before the place summary is updated,
// a place before its province is recounted. The second write is either
// derived (province counts, rating rebuilds) or repaired by the
// reconciliation sweep, so a crash between the two never loses data.
package catalog
