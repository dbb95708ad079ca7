// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package discovery

import (
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

// Set selects a curated subset.
type Set string

const (
	SetAll     Set = ""
	SetPopular Set = "popular"
	SetBest    Set = "best"
)

// SortKey selects the primary ranking.
type SortKey string

const (
	SortDefault SortKey = ""
	SortRating  SortKey = "rating"
	SortViews   SortKey = "views"
)

// Query describes one listing or search request.
type Query struct {
	Text       string   `json:"q,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	ProvinceID string   `json:"province_id,omitempty"`
	TagIDs     []string `json:"tag_ids,omitempty"`
	Set        Set      `json:"set,omitempty"`
	Sort       SortKey  `json:"sort,omitempty"`

	// Limit truncates the sorted result when non-nil. Must be >= 0.
	Limit *int `json:"limit,omitempty"`

	// IncludeNonPublic lists private and closed places too (admin views).
	IncludeNonPublic bool `json:"include_non_public,omitempty"`
}

// Engine filters and ranks places. It holds no state besides thresholds
// and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Thresholds returns the configured thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Run applies q to places: filters, then ranking, then the top-N cut.
//
// Without an explicit sort, the popular set is ordered by views and the best
// set by rating; plain listings keep input order.
func (e *Engine) Run(places []*models.Place, q Query) ([]*models.Place, error) {
	if q.Limit != nil && *q.Limit < 0 {
		return nil, models.NewValidationError("top", "must be >= 0, got %d", *q.Limit)
	}

	filters := make([]Filter, 0, 6)
	if !q.IncludeNonPublic {
		filters = append(filters, Public())
	}
	switch q.Set {
	case SetAll:
	case SetPopular:
		filters = append(filters, Popular(e.thresholds))
	case SetBest:
		filters = append(filters, Best(e.thresholds))
	default:
		return nil, models.NewValidationError("set", "unknown set %q", q.Set)
	}
	if q.CategoryID != "" {
		filters = append(filters, InCategory(q.CategoryID))
	}
	if q.ProvinceID != "" {
		filters = append(filters, InProvince(q.ProvinceID))
	}
	if len(q.TagIDs) > 0 {
		filters = append(filters, WithAnyTag(q.TagIDs...))
	}
	if q.Text != "" {
		filters = append(filters, NameMatches(q.Text))
	}

	var rankers []Ranker
	switch q.Sort {
	case SortRating:
		rankers = []Ranker{ByRating(), ByViews()}
	case SortViews:
		rankers = []Ranker{ByViews(), ByRating()}
	case SortDefault:
		switch q.Set {
		case SetPopular:
			rankers = []Ranker{ByViews(), ByRating()}
		case SetBest:
			rankers = []Ranker{ByRating(), ByViews()}
		}
	default:
		return nil, models.NewValidationError("sort", "unknown sort %q", q.Sort)
	}

	metrics.DiscoveryQueries.WithLabelValues(queryKind(q)).Inc()

	out := Sort(Apply(places, filters...), rankers...)
	if q.Limit != nil {
		return TopN(out, *q.Limit)
	}
	return out, nil
}

// Nearby returns up to limit visible places in ref's province ordered by
// distance to ref. A nil limit returns all of them.
func (e *Engine) Nearby(ref *models.Place, places []*models.Place, limit *int) ([]*models.Place, error) {
	if ref == nil {
		return nil, models.NewValidationError("place_id", "reference place is required")
	}
	metrics.DiscoveryQueries.WithLabelValues("nearby").Inc()

	out := Nearby(ref, Apply(places, Public()))
	if limit != nil {
		return TopN(out, *limit)
	}
	return out, nil
}

func queryKind(q Query) string {
	switch {
	case q.Set == SetPopular:
		return "popular"
	case q.Set == SetBest:
		return "best"
	case q.Text != "":
		return "search"
	default:
		return "list"
	}
}
