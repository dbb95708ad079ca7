// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/rating"
	"github.com/tomtom215/itinera/internal/store"
)

// NewReview is the input of CreateReview.
type NewReview struct {
	PlaceID   string     `json:"place_id" validate:"required,uuid"`
	Title     string     `json:"title,omitempty" validate:"max=200"`
	Content   string     `json:"content,omitempty" validate:"max=5000"`
	Star      int        `json:"star" validate:"required,min=1,max=5"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`
}

// CreateReview stores a review and adds its star to the place's rating.
//
// The review is written first. If the place summary cannot be updated the
// review stands and a *models.RepairFailure is returned together with it;
// the sweep rebuilds the summary from the reviews.
func (s *Service) CreateReview(ctx context.Context, who models.Identity, in NewReview) (*models.Review, error) {
	if err := rating.ValidateStar(in.Star); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, who); err != nil {
		return nil, err
	}
	if _, err := s.visiblePlace(ctx, in.PlaceID); err != nil {
		return nil, err
	}

	r := &models.Review{
		Meta:      models.NewMeta(s.now()),
		PlaceID:   in.PlaceID,
		UserID:    who.ID,
		Title:     in.Title,
		Content:   in.Content,
		Star:      in.Star,
		VisitedAt: in.VisitedAt,
	}
	if err := s.store.Reviews.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	if err := s.applyRating(ctx, r.PlaceID, rating.Add(r.Star)); err != nil {
		return r, err
	}
	return r, nil
}

// UpdateReviewStar changes the star of who's review and moves it between
// histogram buckets.
func (s *Service) UpdateReviewStar(ctx context.Context, who models.Identity, reviewID string, star int) (*models.Review, error) {
	if err := models.ValidateID("review_id", reviewID); err != nil {
		return nil, err
	}
	if err := rating.ValidateStar(star); err != nil {
		return nil, err
	}

	previous := 0
	r, err := s.store.Reviews.Update(ctx, reviewID, func(r *models.Review) error {
		if r.Hidden || !canEdit(who, r) {
			return models.NewNotFoundError("review", reviewID)
		}
		previous = r.Star
		if r.Star == star {
			return store.ErrUnchanged
		}
		r.Star = star
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous == star {
		return r, nil
	}

	if err := s.applyRating(ctx, r.PlaceID, rating.Replace(previous, star)); err != nil {
		return r, err
	}
	return r, nil
}

// HideReview hides who's review and removes its star from the rating.
// Hiding an already hidden review changes nothing.
func (s *Service) HideReview(ctx context.Context, who models.Identity, reviewID string) (*models.Review, error) {
	if err := models.ValidateID("review_id", reviewID); err != nil {
		return nil, err
	}

	hidden := false
	r, err := s.store.Reviews.Update(ctx, reviewID, func(r *models.Review) error {
		if !canEdit(who, r) {
			return models.NewNotFoundError("review", reviewID)
		}
		hidden = false
		if r.Hidden {
			return store.ErrUnchanged
		}
		r.Hidden = true
		hidden = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !hidden {
		return r, nil
	}

	if err := s.applyRating(ctx, r.PlaceID, rating.Remove(r.Star)); err != nil {
		return r, err
	}
	return r, nil
}

// ToggleLike likes or unlikes a visible review on behalf of who. liked
// reports the state after the toggle.
func (s *Service) ToggleLike(ctx context.Context, who models.Identity, reviewID string) (r *models.Review, liked bool, err error) {
	if err := models.ValidateID("review_id", reviewID); err != nil {
		return nil, false, err
	}
	if _, err := s.activeUser(ctx, who); err != nil {
		return nil, false, err
	}

	r, err = s.store.Reviews.Update(ctx, reviewID, func(r *models.Review) error {
		if r.Hidden {
			return models.NewNotFoundError("review", reviewID)
		}
		liked = rating.ToggleLike(r, who.ID)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return r, liked, nil
}

// ListReviews returns the visible reviews of a place, newest first.
func (s *Service) ListReviews(ctx context.Context, placeID string) ([]*models.Review, error) {
	if _, err := s.visiblePlace(ctx, placeID); err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews.List(ctx, func(r *models.Review) bool {
		return r.PlaceID == placeID && !r.Hidden
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// applyRating folds one review event into the place summary. The place's
// reviews are read in the same transaction; when the incremental result
// disagrees with them (drift, or a concurrent event already folded in) the
// summary recomputed from the reviews is written instead.
func (s *Service) applyRating(ctx context.Context, placeID string, ev rating.Event) error {
	_, err := s.store.PlaceRatings.Update(ctx, placeID,
		func(r *models.Review) bool { return r.PlaceID == placeID },
		func(p *models.Place, reviews []*models.Review) error {
			want := rating.Rebuild(reviews)
			sum, err := rating.Apply(p.Histogram, ev)
			if err != nil || sum != want {
				logging.Ctx(ctx).Debug().
					AnErr("apply_error", err).
					Str("place_id", placeID).
					Str("event", string(ev.Kind)).
					Msg("Incremental rating differs from reviews, using recomputed summary")
				sum = want
			}
			if p.Histogram == sum.Histogram && p.ReviewCount == sum.ReviewCount && p.RateVoting == sum.RateVoting {
				return store.ErrUnchanged
			}
			sum.ApplyTo(p)
			return nil
		})
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("place_id", placeID).
			Msg("Rating update failed, leaving it to the reconciliation sweep")
		return &models.RepairFailure{Operation: "rate_place", Attempts: 1, Cause: err}
	}
	s.invalidateListings()
	return nil
}

// rebuildRating recomputes one place summary from its reviews and reports
// whether the stored summary changed.
// The reviews are read in the same transaction as the place write.
func (s *Service) rebuildRating(ctx context.Context, placeID string) (bool, error) {
	changed := false
	_, err := s.store.PlaceRatings.Update(ctx, placeID,
		func(r *models.Review) bool { return r.PlaceID == placeID },
		func(p *models.Place, reviews []*models.Review) error {
			changed = false
			want := rating.Rebuild(reviews)
			if p.Histogram == want.Histogram && p.ReviewCount == want.ReviewCount && p.RateVoting == want.RateVoting {
				return store.ErrUnchanged
			}
			want.ApplyTo(p)
			changed = true
			return nil
		})
	return changed, err
}

// RebuildRatings recomputes every place summary from the visible reviews and
// returns the number of places that were corrected.
func (s *Service) RebuildRatings(ctx context.Context) (int, error) {
	reviews, err := s.store.Reviews.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list reviews: %w", err)
	}
	byPlace := make(map[string][]*models.Review)
	for _, r := range reviews {
		byPlace[r.PlaceID] = append(byPlace[r.PlaceID], r)
	}

	places, err := s.store.Places.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list places: %w", err)
	}

	fixed := 0
	for _, p := range places {
		want := rating.Rebuild(byPlace[p.ID])
		if p.Histogram == want.Histogram && p.ReviewCount == want.ReviewCount && p.RateVoting == want.RateVoting {
			continue
		}
		changed, err := s.rebuildRating(ctx, p.ID)
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed++
			metrics.SweepRepairs.WithLabelValues("rating_summary").Inc()
		}
	}
	if fixed > 0 {
		s.invalidateListings()
	}
	return fixed, nil
}

func canEdit(who models.Identity, r *models.Review) bool {
	return who.IsAdmin() || r.UserID == who.ID
}
