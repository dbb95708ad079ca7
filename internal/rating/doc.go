// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package rating turns review events into a place's displayed score.

A place keeps a histogram of visible reviews per star value. Each review
mutation is expressed as an Event (Add, Replace, Remove) and applied with
Apply, which returns the new histogram, the review count and the weighted
score rateVoting:

	rateVoting = round1(sum(star * count) / sum(count))   (0 when empty)

Rounding is to one decimal, ties away from zero. Apply never mutates its
input and rejects out-of-range stars before anything is returned, so a
rejected event cannot partially update a place.

Rebuild computes the same summary from the review records themselves. The
reconciliation sweep uses it to correct any drift left by a failed place
write after a review write.

Likes are independent of the histogram; see ToggleLike.
*/
package rating
