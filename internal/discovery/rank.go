// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package discovery

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomtom215/itinera/internal/models"
)

// Ranker orders two places; negative means a ranks before b.
type Ranker func(a, b *models.Place) int

// ByRating ranks higher rateVoting first.
func ByRating() Ranker {
	return func(a, b *models.Place) int { return cmp.Compare(b.RateVoting, a.RateVoting) }
}

// ByViews ranks higher viewCount first.
func ByViews() Ranker {
	return func(a, b *models.Place) int { return cmp.Compare(b.ViewCount, a.ViewCount) }
}

// ByDistanceFrom ranks places closer to ref first.
func ByDistanceFrom(ref *models.Place) Ranker {
	return func(a, b *models.Place) int { return cmp.Compare(Distance(ref, a), Distance(ref, b)) }
}

// Distance is the Manhattan distance in degrees: |dLat| + |dLon|.
func Distance(a, b *models.Place) float64 {
	return math.Abs(a.Latitude-b.Latitude) + math.Abs(a.Longitude-b.Longitude)
}

// Sort returns a sorted copy of places. Later rankers break ties of earlier
// ones; remaining ties keep their input order.
func Sort(places []*models.Place, rankers ...Ranker) []*models.Place {
	out := slices.Clone(places)
	if len(rankers) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b *models.Place) int {
		for _, r := range rankers {
			if c := r(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// Nearby returns the candidates in ref's province, excluding ref itself,
// ordered by non-decreasing distance to ref.
func Nearby(ref *models.Place, candidates []*models.Place) []*models.Place {
	same := Apply(candidates,
		InProvince(ref.ProvinceID),
		func(p *models.Place) bool { return p.ID != ref.ID },
	)
	return Sort(same, ByDistanceFrom(ref))
}

// TopN truncates places to at most n entries. Negative n is rejected.
func TopN(places []*models.Place, n int) ([]*models.Place, error) {
	if n < 0 {
		return nil, models.NewValidationError("top", "must be >= 0, got %d", n)
	}
	if n < len(places) {
		return places[:n], nil
	}
	return places, nil
}
