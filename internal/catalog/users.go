// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/store"
)

// AddFavorite adds a visible place to who's favorites. Adding a place that
// is already a favorite succeeds without changes.
func (s *Service) AddFavorite(ctx context.Context, who models.Identity, placeID string) ([]string, error) {
	if _, err := s.visiblePlace(ctx, placeID); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, who); err != nil {
		return nil, err
	}

	u, err := s.store.Users.Update(ctx, who.ID, func(u *models.User) error {
		if u.HasFavorite(placeID) {
			return store.ErrUnchanged
		}
		u.Favorites = append(u.Favorites, placeID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}

// RemoveFavorite drops placeID from who's favorites. Removing a place that
// is not a favorite succeeds without changes.
func (s *Service) RemoveFavorite(ctx context.Context, who models.Identity, placeID string) ([]string, error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, who); err != nil {
		return nil, err
	}

	u, err := s.store.Users.Update(ctx, who.ID, func(u *models.User) error {
		kept := make([]string, 0, len(u.Favorites))
		for _, id := range u.Favorites {
			if id != placeID {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(u.Favorites) {
			return store.ErrUnchanged
		}
		u.Favorites = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}

// ListFavorites returns who's favorite places in insertion order. Places
// that were hidden since are skipped.
func (s *Service) ListFavorites(ctx context.Context, who models.Identity) ([]*models.Place, error) {
	u, err := s.activeUser(ctx, who)
	if err != nil {
		return nil, err
	}
	return s.resolvePlaces(ctx, u.Favorites)
}

// RecentPlaces returns who's recently viewed list, most recent first.
func (s *Service) RecentPlaces(ctx context.Context, who models.Identity) ([]models.RecentEntry, error) {
	u, err := s.activeUser(ctx, who)
	if err != nil {
		return nil, err
	}
	if u.RecentSearch == nil {
		return []models.RecentEntry{}, nil
	}
	return u.RecentSearch, nil
}

// SetUserDisabled enables or disables an account. Disabled accounts cannot
// use favorites, the recent list, reviews or likes.
func (s *Service) SetUserDisabled(ctx context.Context, userID string, disabled bool) (*models.User, error) {
	if userID == "" {
		return nil, models.NewValidationError("user_id", "is required")
	}

	u, err := s.store.Users.Update(ctx, userID, func(u *models.User) error {
		if u.Hidden == disabled {
			return store.ErrUnchanged
		}
		u.Hidden = disabled
		return nil
	})
	if errors.Is(err, models.ErrNotFound) && disabled {
		// Disabling an account that never used the service still has to stick.
		u = &models.User{Meta: models.NewMeta(s.now()), Hidden: true}
		u.ID = userID
		err = s.store.Users.Insert(ctx, u)
	}
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("user_id", userID).
		Bool("disabled", disabled).
		Msg("User status changed")
	return u, nil
}

// resolvePlaces loads places by ID in order, skipping missing and hidden ones.
func (s *Service) resolvePlaces(ctx context.Context, ids []string) ([]*models.Place, error) {
	out := make([]*models.Place, 0, len(ids))
	for _, id := range ids {
		p, err := s.store.Places.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.Hidden() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
