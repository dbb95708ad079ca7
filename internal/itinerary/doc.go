// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package itinerary manages travel plans, their day sections and the ordered
waypoints inside each section.

# Ownership

Every operation takes the caller's models.Identity. Plans that belong to
someone else, or that were deleted (hidden), are reported as not found so
that their existence is not disclosed. Administrators pass ownership checks.

# Consistency

A section is referenced from two documents: its own PlanID and the plan's
SectionIDs list. The store only offers single-document atomicity, so the
Manager writes the child first and then repairs the parent with bounded
retries behind a circuit breaker (sony/gobreaker). When the repair gives up
the caller receives a *models.RepairFailure, and the periodic Sweep removes
the orphan section or stale reference that was left behind.

# Waypoints

Waypoints are unique per section and keep insertion order. The visited flag
only moves from false to true.
*/
package itinerary
