// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package rating

import (
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

// EventKind identifies a review mutation.
type EventKind string

const (
	// EventAdd adds a new visible review with Star.
	EventAdd EventKind = "add"
	// EventReplace changes a visible review from Previous to Star.
	EventReplace EventKind = "replace"
	// EventRemove hides a review whose star was Previous.
	EventRemove EventKind = "remove"
)

// Event is a single review mutation as seen by the histogram.
type Event struct {
	Kind     EventKind
	Star     int
	Previous int
}

// Add returns an EventAdd for star.
func Add(star int) Event { return Event{Kind: EventAdd, Star: star} }

// Replace returns an EventReplace from previous to star.
func Replace(previous, star int) Event {
	return Event{Kind: EventReplace, Star: star, Previous: previous}
}

// Remove returns an EventRemove for a review that had star.
func Remove(star int) Event { return Event{Kind: EventRemove, Previous: star} }

// Summary is the rating state written back to a place.
type Summary struct {
	Histogram   models.Histogram
	ReviewCount int
	RateVoting  float64
}

// ApplyTo writes the summary into p. No other field is touched.
func (s Summary) ApplyTo(p *models.Place) {
	p.Histogram = s.Histogram
	p.ReviewCount = s.ReviewCount
	p.RateVoting = s.RateVoting
}

// ValidateStar rejects star values outside 1..5.
func ValidateStar(star int) error {
	if star < models.MinStar || star > models.MaxStar {
		return models.NewValidationError("star", "must be between %d and %d, got %d",
			models.MinStar, models.MaxStar, star)
	}
	return nil
}

// Apply returns the summary produced by applying ev to h. h is not modified.
// An out-of-range star, or removing a star that has no reviews, is rejected
// and nothing is returned to write.
func Apply(h models.Histogram, ev Event) (Summary, error) {
	next := h

	switch ev.Kind {
	case EventAdd:
		if err := ValidateStar(ev.Star); err != nil {
			metrics.RatingRejected.Inc()
			return Summary{}, err
		}
		next[ev.Star-1]++

	case EventReplace:
		if err := ValidateStar(ev.Star); err != nil {
			metrics.RatingRejected.Inc()
			return Summary{}, err
		}
		if err := decrement(&next, ev.Previous); err != nil {
			return Summary{}, err
		}
		next[ev.Star-1]++

	case EventRemove:
		if err := decrement(&next, ev.Previous); err != nil {
			return Summary{}, err
		}

	default:
		return Summary{}, models.NewValidationError("event", "unknown review event %q", ev.Kind)
	}

	metrics.RatingEvents.WithLabelValues(string(ev.Kind)).Inc()
	return Summarize(next), nil
}

func decrement(h *models.Histogram, star int) error {
	if err := ValidateStar(star); err != nil {
		metrics.RatingRejected.Inc()
		return err
	}
	if h[star-1] == 0 {
		return models.NewValidationError("star", "no visible %d-star review to remove", star)
	}
	h[star-1]--
	return nil
}

// Summarize derives ReviewCount and RateVoting from h.
func Summarize(h models.Histogram) Summary {
	total, weighted := 0, 0
	for i, c := range h {
		total += c
		weighted += (i + 1) * c
	}

	s := Summary{Histogram: h, ReviewCount: total}
	if total > 0 {
		s.RateVoting = roundedMean(weighted, total)
	}
	return s
}

// Rebuild derives the summary from the star values of all visible reviews.
// Reviews with an invalid star are skipped.
func Rebuild(reviews []*models.Review) Summary {
	var h models.Histogram
	for _, r := range reviews {
		if r.Hidden || ValidateStar(r.Star) != nil {
			continue
		}
		h[r.Star-1]++
	}
	return Summarize(h)
}

// roundedMean returns weighted/total rounded to one decimal place, ties away
// from zero (13/4 = 3.25 -> 3.3). Integer arithmetic keeps ties exact.
func roundedMean(weighted, total int) float64 {
	tenths := (20*weighted + total) / (2 * total)
	return float64(tenths) / 10
}
