// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/itinera/internal/cache"
	"github.com/tomtom215/itinera/internal/discovery"
	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/recency"
)

// NewPlace is the input of CreatePlace.
type NewPlace struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description,omitempty"`
	Address     string             `json:"address,omitempty"`
	Latitude    float64            `json:"latitude" validate:"latitude"`
	Longitude   float64            `json:"longitude" validate:"longitude"`
	CategoryID  string             `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs      []string           `json:"tag_ids,omitempty" validate:"omitempty,dive,uuid"`
	ProvinceID  string             `json:"province_id,omitempty" validate:"omitempty,uuid"`
	Status      models.PlaceStatus `json:"status,omitempty" validate:"omitempty,oneof=public private closed"`
	Popular     bool               `json:"popular"`
	Price       models.PriceRange  `json:"price"`
	OpenTime    string             `json:"open_time,omitempty"`
	CloseTime   string             `json:"close_time,omitempty"`
	Images      []string           `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// CreatePlace adds a place to the catalogue and recounts its province.
func (s *Service) CreatePlace(ctx context.Context, in NewPlace) (*models.Place, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if in.Status == "" {
		in.Status = models.StatusPublic
	}

	p := &models.Place{
		Meta:        models.NewMeta(s.now()),
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CategoryID:  in.CategoryID,
		TagIDs:      in.TagIDs,
		ProvinceID:  in.ProvinceID,
		Status:      in.Status,
		Popular:     in.Popular,
		Price:       in.Price,
		OpenTime:    in.OpenTime,
		CloseTime:   in.CloseTime,
		Images:      in.Images,
	}
	if err := s.validatePlace(ctx, p); err != nil {
		return nil, err
	}

	if err := s.store.Places.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert place: %w", err)
	}
	s.invalidateListings()
	s.recountAfter(ctx, nil, p)

	logging.Ctx(ctx).Info().
		Str("place_id", p.ID).
		Str("province_id", p.ProvinceID).
		Msg("Place created")
	return p, nil
}

// UpdatePlace applies an admin patch. Rating fields and the view counter
// are not patchable.
func (s *Service) UpdatePlace(ctx context.Context, placeID string, patch models.PlacePatch) (*models.Place, error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, models.NewValidationError("name", "must not be blank")
	}

	// Reference checks run outside the transaction; the referenced documents
	// are never hard-deleted.
	probe := &models.Place{Status: models.StatusPublic}
	if patch.CategoryID != nil {
		probe.CategoryID = *patch.CategoryID
	}
	if patch.ProvinceID != nil {
		probe.ProvinceID = *patch.ProvinceID
	}
	if patch.TagIDs != nil {
		probe.TagIDs = *patch.TagIDs
	}
	if patch.Status != nil {
		probe.Status = *patch.Status
	}
	if patch.Latitude != nil {
		probe.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		probe.Longitude = *patch.Longitude
	}
	if patch.Price != nil {
		probe.Price = *patch.Price
	}
	if err := s.validatePlace(ctx, probe); err != nil {
		return nil, err
	}

	var before models.Place
	after, err := s.store.Places.Update(ctx, placeID, func(p *models.Place) error {
		before = *p
		patch.Apply(p, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	s.recountAfter(ctx, &before, after)
	return after, nil
}

// HidePlace soft-deletes a place by setting its status to private.
func (s *Service) HidePlace(ctx context.Context, placeID string) (*models.Place, error) {
	status := models.StatusPrivate
	return s.UpdatePlace(ctx, placeID, models.PlacePatch{Status: &status})
}

// GetPlace returns a place regardless of status. Used by admin views.
func (s *Service) GetPlace(ctx context.Context, placeID string) (*models.Place, error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, err
	}
	return s.store.Places.Get(ctx, placeID)
}

// ViewPlace returns a non-hidden place after counting the view. The view
// count feeds the popular set and view ordering, so cached listings are
// dropped. When who is set, the place is also recorded in who's recently
// viewed list.
func (s *Service) ViewPlace(ctx context.Context, who *models.Identity, placeID string) (*models.Place, error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, err
	}

	p, err := s.store.Places.Update(ctx, placeID, func(p *models.Place) error {
		if p.Hidden() {
			return models.NewNotFoundError("place", placeID)
		}
		p.ViewCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PlaceViews.Inc()
	s.invalidateListings()

	if who != nil && who.ID != "" {
		if _, err := s.RecordRecent(ctx, *who, placeID); err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("place_id", placeID).
				Msg("Failed to record recently viewed place")
		}
	}
	return p, nil
}

// RecordRecent moves placeID to the front of who's recently viewed list.
func (s *Service) RecordRecent(ctx context.Context, who models.Identity, placeID string) ([]models.RecentEntry, error) {
	if _, err := s.activeUser(ctx, who); err != nil {
		return nil, err
	}
	now := s.now()
	u, err := s.store.Users.Update(ctx, who.ID, func(u *models.User) error {
		entries, err := recency.Record(u.RecentSearch, placeID, now, s.capacity)
		if err != nil {
			return err
		}
		u.RecentSearch = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.RecentSearch, nil
}

// ListPlaces runs a discovery query over the catalogue. Results are cached
// until the next place, review or view count write.
func (s *Service) ListPlaces(ctx context.Context, q discovery.Query) ([]*models.Place, error) {
	key := cache.GenerateKey(placesNamespace+"list", q)
	if hit, ok := s.listings.Get(key); ok {
		return hit, nil
	}

	all, err := s.store.Places.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	out, err := s.engine.Run(all, q)
	if err != nil {
		return nil, err
	}
	s.listings.Set(key, out)
	return out, nil
}

// PopularPlaces returns the curated popular set, most viewed first.
func (s *Service) PopularPlaces(ctx context.Context, limit *int) ([]*models.Place, error) {
	return s.ListPlaces(ctx, discovery.Query{Set: discovery.SetPopular, Limit: limit})
}

// BestPlaces returns the best-rated set, highest rated first.
func (s *Service) BestPlaces(ctx context.Context, limit *int) ([]*models.Place, error) {
	return s.ListPlaces(ctx, discovery.Query{Set: discovery.SetBest, Limit: limit})
}

// SearchPlaces matches text against place names ignoring case and diacritics.
func (s *Service) SearchPlaces(ctx context.Context, text string, limit *int) ([]*models.Place, error) {
	return s.ListPlaces(ctx, discovery.Query{Text: text, Limit: limit})
}

// NearbyPlaces returns public places in the same province as placeID,
// closest first.
func (s *Service) NearbyPlaces(ctx context.Context, placeID string, limit *int) ([]*models.Place, error) {
	ref, err := s.visiblePlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(placesNamespace+"nearby", struct {
		ID    string
		Limit *int
	}{placeID, limit})
	if hit, ok := s.listings.Get(key); ok {
		return hit, nil
	}

	candidates, err := s.store.Places.List(ctx, func(p *models.Place) bool {
		return p.ProvinceID == ref.ProvinceID
	})
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	out, err := s.engine.Nearby(ref, candidates, limit)
	if err != nil {
		return nil, err
	}
	s.listings.Set(key, out)
	return out, nil
}

// validatePlace checks the fields of p that need more than struct tags:
// status, coordinates and the existence of referenced documents.
func (s *Service) validatePlace(ctx context.Context, p *models.Place) error {
	if !p.Status.Valid() {
		return models.NewValidationError("status", "unknown status %q", p.Status)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return models.NewValidationError("latitude", "must be within [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return models.NewValidationError("longitude", "must be within [-180, 180]")
	}
	if p.Price.End != 0 && p.Price.End < p.Price.Start {
		return models.NewValidationError("price", "end must not be below start")
	}

	if p.ProvinceID != "" {
		if err := requireRef[*models.Province](ctx, "province_id", p.ProvinceID, s.store.Provinces); err != nil {
			return err
		}
	}
	if p.CategoryID != "" {
		if err := requireRef[*models.Category](ctx, "category_id", p.CategoryID, s.store.Categories); err != nil {
			return err
		}
	}
	for _, id := range p.TagIDs {
		if err := requireRef[*models.Tag](ctx, "tag_ids", id, s.store.Tags); err != nil {
			return err
		}
	}
	return nil
}

type getter[P any] interface {
	Get(ctx context.Context, id string) (P, error)
}

// requireRef rejects malformed or dangling references with a validation error.
func requireRef[P any](ctx context.Context, field, id string, c getter[P]) error {
	if err := models.ValidateID(field, id); err != nil {
		return err
	}
	_, err := c.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewValidationError(field, "references unknown document %q", id)
	}
	return err
}
