// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package discovery filters, normalizes and ranks places for listing, search,
proximity and popularity queries.

Everything here is a pure function of the place set handed in; loading
places and incrementing view counters is done by the catalog service.

# Search

Names and queries are compared after Normalize: canonical decomposition,
removal of combining marks, recomposition, lower-casing and removal of any
character outside [0-9a-z]. "Ha Noi" therefore matches "Hà Nội".

# Filters and rankers

Filters (Public, Popular, Best, InCategory, InProvince, WithAnyTag,
NameMatches) compose with Apply. Rankers (ByRating, ByViews, ByDistanceFrom)
compose with Sort, later rankers breaking ties of earlier ones. TopN cuts
the sorted result.

Engine.Run wires these together for a Query; Engine.Nearby ranks the public
places of the reference place's province by |dLat| + |dLon|, excluding the
reference itself.
*/
package discovery
