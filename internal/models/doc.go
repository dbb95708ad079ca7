// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package models defines the persisted aggregates of Itinera and the typed
errors shared by every layer.

# Aggregates

  - Place: point of interest with a rating histogram and view counter
  - Review: star rating of a place, hidden rather than deleted
  - Province, Category, Tag: reference data attached to places
  - User: favorites and the recency ledger of one caller
  - Plan and Section: the itinerary hierarchy; a plan owns the ordered list
    of its section IDs and a section owns its waypoints

Every aggregate embeds Meta and therefore implements Document, which the
store uses for optimistic version checks.

# Errors

ValidationError, NotFoundError, ConflictError and RepairFailure unwrap to
ErrValidation, ErrNotFound, ErrConflict and ErrRepair respectively:

	if errors.Is(err, models.ErrNotFound) {
	    // 404
	}
*/
package models
