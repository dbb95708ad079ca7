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

// LabelPatch updates a category or tag. Nil fields keep their value.
type LabelPatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Hidden *bool   `json:"hidden,omitempty"`
}

func (lp LabelPatch) validate() error {
	if lp.Name != nil && strings.TrimSpace(*lp.Name) == "" {
		return models.NewValidationError("name", "must not be blank")
	}
	return nil
}

// CreateCategory creates a visible category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	c := &models.Category{Meta: models.NewMeta(s.now()), Name: name}
	if err := s.store.Categories.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// ListCategories returns categories ordered by name.
func (s *Service) ListCategories(ctx context.Context, includeHidden bool) ([]*models.Category, error) {
	out, err := s.store.Categories.List(ctx, func(c *models.Category) bool {
		return includeHidden || !c.Hidden
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UpdateCategory renames, hides or unhides a category.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch LabelPatch) (*models.Category, error) {
	if err := models.ValidateID("category_id", id); err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}
	c, err := s.store.Categories.Update(ctx, id, func(c *models.Category) error {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Hidden != nil {
			c.Hidden = *patch.Hidden
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateListings()
	return c, nil
}

// CreateTag creates a visible tag.
func (s *Service) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	t := &models.Tag{Meta: models.NewMeta(s.now()), Name: name}
	if err := s.store.Tags.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	return t, nil
}

// ListTags returns tags ordered by name.
func (s *Service) ListTags(ctx context.Context, includeHidden bool) ([]*models.Tag, error) {
	out, err := s.store.Tags.List(ctx, func(t *models.Tag) bool {
		return includeHidden || !t.Hidden
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UpdateTag renames, hides or unhides a tag.
func (s *Service) UpdateTag(ctx context.Context, id string, patch LabelPatch) (*models.Tag, error) {
	if err := models.ValidateID("tag_id", id); err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}
	t, err := s.store.Tags.Update(ctx, id, func(t *models.Tag) error {
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Hidden != nil {
			t.Hidden = *patch.Hidden
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateListings()
	return t, nil
}
