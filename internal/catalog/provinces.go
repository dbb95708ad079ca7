// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/itinera/internal/models"
)

// NewProvince is the input of CreateProvince.
type NewProvince struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Image string `json:"image,omitempty" validate:"omitempty,url"`
}

// CreateProvince creates a province with a count of zero.
func (s *Service) CreateProvince(ctx context.Context, in NewProvince) (*models.Province, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	pv := &models.Province{
		Meta:      models.NewMeta(s.now()),
		Name:      in.Name,
		Color:     in.Color,
		Image:     in.Image,
		CountedAt: s.now(),
	}
	if err := s.store.Provinces.Insert(ctx, pv); err != nil {
		return nil, fmt.Errorf("insert province: %w", err)
	}
	return pv, nil
}

// GetProvince returns a visible province.
func (s *Service) GetProvince(ctx context.Context, provinceID string) (*models.Province, error) {
	if err := models.ValidateID("province_id", provinceID); err != nil {
		return nil, err
	}
	pv, err := s.store.Provinces.Get(ctx, provinceID)
	if err != nil {
		return nil, err
	}
	if pv.Hidden {
		return nil, models.NewNotFoundError("province", provinceID)
	}
	return pv, nil
}

// ListProvinces returns provinces ordered by name. Hidden provinces are
// included only when includeHidden is set.
func (s *Service) ListProvinces(ctx context.Context, includeHidden bool) ([]*models.Province, error) {
	out, err := s.store.Provinces.List(ctx, func(pv *models.Province) bool {
		return includeHidden || !pv.Hidden
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecountProvinces recomputes placeCount for the given provinces, or for all
// of them when none are given.
func (s *Service) RecountProvinces(ctx context.Context, provinceIDs ...string) (int, error) {
	if len(provinceIDs) == 0 {
		return s.counter.RecountAll(ctx)
	}
	for _, id := range provinceIDs {
		if err := models.ValidateID("province_id", id); err != nil {
			return 0, err
		}
	}
	return s.counter.Recount(ctx, provinceIDs...)
}
