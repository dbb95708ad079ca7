// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/itinera/internal/cache"
	"github.com/tomtom215/itinera/internal/discovery"
	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/province"
	"github.com/tomtom215/itinera/internal/recency"
	"github.com/tomtom215/itinera/internal/store"
)

// placesNamespace prefixes every cached listing so place and review writes
// can drop them together.
const placesNamespace = "places:"

// Config tunes the catalog service.
type Config struct {
	// LedgerCapacity bounds each user's recently viewed list.
	LedgerCapacity int

	// Thresholds define the popular and best-rated sets.
	Thresholds discovery.Thresholds

	// ListCacheTTL is how long listing results are cached. Zero disables it.
	ListCacheTTL time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		LedgerCapacity: recency.DefaultCapacity,
		Thresholds:     discovery.DefaultThresholds(),
		ListCacheTTL:   30 * time.Second,
	}
}

// Service implements the place catalogue, reviews, user lists, provinces,
// categories and tags on top of the document store.
type Service struct {
	store    *store.Store
	engine   *discovery.Engine
	counter  *province.Counter
	listings *cache.Cache[[]*models.Place]
	capacity int
	now      func() time.Time
}

// NewService creates a Service.
func NewService(st *store.Store, cfg Config) *Service {
	if cfg.LedgerCapacity < 1 {
		cfg.LedgerCapacity = recency.DefaultCapacity
	}
	return &Service{
		store:    st,
		engine:   discovery.NewEngine(cfg.Thresholds),
		counter:  province.NewCounter(st.Provinces, st.ProvinceCounts),
		listings: cache.New[[]*models.Place](cfg.ListCacheTTL),
		capacity: cfg.LedgerCapacity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CleanupCache drops expired listing entries and returns how many were removed.
func (s *Service) CleanupCache() int {
	return s.listings.Cleanup()
}

// CacheStats returns listing cache statistics.
func (s *Service) CacheStats() cache.Stats {
	return s.listings.GetStats()
}

func (s *Service) invalidateListings() {
	s.listings.DeletePrefix(placesNamespace)
}

// recountAfter refreshes province counts touched by a place change. The
// place write has already succeeded, so failures are logged and left to the
// sweep instead of failing the request.
func (s *Service) recountAfter(ctx context.Context, before, after *models.Place) {
	ids := province.Affected(before, after)
	if len(ids) == 0 {
		return
	}
	if _, err := s.counter.Recount(ctx, ids...); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Strs("province_ids", ids).
			Msg("Province recount failed, sweep will correct it")
	}
}

// visiblePlace loads a place that is not hidden.
func (s *Service) visiblePlace(ctx context.Context, placeID string) (*models.Place, error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, err
	}
	p, err := s.store.Places.Get(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if p.Hidden() {
		return nil, models.NewNotFoundError("place", placeID)
	}
	return p, nil
}

// activeUser returns who's user document, creating it on first use. Disabled
// accounts are reported as not found.
func (s *Service) activeUser(ctx context.Context, who models.Identity) (*models.User, error) {
	if who.ID == "" {
		return nil, models.NewValidationError("user", "is required")
	}

	u, err := s.store.Users.Get(ctx, who.ID)
	if errors.Is(err, models.ErrNotFound) {
		u = &models.User{Meta: models.NewMeta(s.now())}
		u.ID = who.ID
		err = s.store.Users.Insert(ctx, u)
		if errors.Is(err, models.ErrConflict) {
			u, err = s.store.Users.Get(ctx, who.ID)
		}
	}
	if err != nil {
		return nil, err
	}
	if u.Hidden {
		return nil, models.NewNotFoundError("user", who.ID)
	}
	return u, nil
}
