// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package discovery

import "github.com/tomtom215/itinera/internal/models"

// Filter keeps a place when it returns true.
type Filter func(p *models.Place) bool

// Thresholds configures the curated sets.
type Thresholds struct {
	// PopularRate and PopularViews are strict lower bounds for the popular set.
	PopularRate  float64
	PopularViews int64

	// BestRate is the strict lower bound for the best-rated set.
	BestRate float64
}

// DefaultThresholds returns popular = rate > 3.5 and views > 15, best = rate > 4.
func DefaultThresholds() Thresholds {
	return Thresholds{PopularRate: 3.5, PopularViews: 15, BestRate: 4}
}

// Public keeps places whose status is public.
func Public() Filter {
	return func(p *models.Place) bool { return p.Status == models.StatusPublic }
}

// Visible keeps places that are not hidden (public and closed).
func Visible() Filter {
	return func(p *models.Place) bool { return !p.Hidden() }
}

// Popular keeps admin-flagged places above both popularity thresholds.
func Popular(t Thresholds) Filter {
	return func(p *models.Place) bool {
		return p.Popular && p.RateVoting > t.PopularRate && p.ViewCount > t.PopularViews
	}
}

// Best keeps places rated strictly above the best threshold.
func Best(t Thresholds) Filter {
	return func(p *models.Place) bool { return p.RateVoting > t.BestRate }
}

// InCategory keeps places of the given category.
func InCategory(categoryID string) Filter {
	return func(p *models.Place) bool { return p.CategoryID == categoryID }
}

// InProvince keeps places of the given province.
func InProvince(provinceID string) Filter {
	return func(p *models.Place) bool { return p.ProvinceID == provinceID }
}

// WithAnyTag keeps places sharing at least one tag with tagIDs.
func WithAnyTag(tagIDs ...string) Filter {
	want := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		want[id] = struct{}{}
	}
	return func(p *models.Place) bool {
		for _, id := range p.TagIDs {
			if _, ok := want[id]; ok {
				return true
			}
		}
		return false
	}
}

// NameMatches keeps places whose normalized name contains the normalized query.
func NameMatches(query string) Filter {
	q := Normalize(query)
	return func(p *models.Place) bool {
		if q == "" {
			return true
		}
		return containsNormalized(p.Name, q)
	}
}

// Apply returns the places accepted by every filter, preserving order.
// The input slice is not modified.
func Apply(places []*models.Place, filters ...Filter) []*models.Place {
	out := make([]*models.Place, 0, len(places))
next:
	for _, p := range places {
		for _, f := range filters {
			if !f(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}
