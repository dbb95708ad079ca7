// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package itinerary

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/store"
)

// NewSection is the input of CreateSection.
type NewSection struct {
	PlanID   string            `json:"plan_id" validate:"required,uuid"`
	Window   models.TimeWindow `json:"window"`
	PlaceIDs []string          `json:"place_ids,omitempty" validate:"omitempty,dive,uuid"`
	Note     string            `json:"note,omitempty" validate:"max=2000"`
}

// CreateSection creates a section and appends it to its plan.
//
// The section is written first. If the plan cannot be updated after the
// configured retries, the created section is returned together with a
// *models.RepairFailure: it is an orphan, invisible through every read path,
// and the sweep reclaims it.
func (m *Manager) CreateSection(ctx context.Context, who models.Identity, in NewSection) (*models.Section, error) {
	if err := models.ValidateID("plan_id", in.PlanID); err != nil {
		return nil, err
	}
	if err := in.Window.Validate("window"); err != nil {
		return nil, err
	}
	for _, id := range in.PlaceIDs {
		if err := models.ValidateID("place_ids", id); err != nil {
			return nil, err
		}
	}

	if _, err := m.ownedPlan(ctx, who, in.PlanID); err != nil {
		return nil, err
	}

	waypoints := make([]models.Waypoint, 0, len(in.PlaceIDs))
	seen := make(map[string]struct{}, len(in.PlaceIDs))
	for _, id := range in.PlaceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if err := m.requireVisiblePlace(ctx, id); err != nil {
			return nil, err
		}
		seen[id] = struct{}{}
		waypoints = append(waypoints, models.Waypoint{PlaceID: id})
	}

	section := &models.Section{
		Meta:      models.NewMeta(m.now()),
		PlanID:    in.PlanID,
		Window:    in.Window,
		Note:      in.Note,
		Waypoints: waypoints,
	}
	if err := m.sections.Insert(ctx, section); err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}

	err := m.repair(ctx, "create_section", func(ctx context.Context) error {
		_, err := m.plans.Update(ctx, in.PlanID, func(p *models.Plan) error {
			if p.HasSection(section.ID) {
				return store.ErrUnchanged
			}
			p.SectionIDs = append(p.SectionIDs, section.ID)
			return nil
		})
		return err
	})
	if err != nil {
		return section, err
	}

	logging.Ctx(ctx).Debug().
		Str("plan_id", in.PlanID).
		Str("section_id", section.ID).
		Int("waypoints", len(waypoints)).
		Msg("Section created")
	return section, nil
}

// GetSection returns a section reachable through a plan owned by who.
// Hidden sections and orphans are reported as not found.
func (m *Manager) GetSection(ctx context.Context, who models.Identity, sectionID string) (*models.Section, error) {
	if err := models.ValidateID("section_id", sectionID); err != nil {
		return nil, err
	}
	section, err := m.sections.Get(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section.Hidden {
		return nil, models.NewNotFoundError("section", sectionID)
	}
	plan, err := m.ownedPlan(ctx, who, section.PlanID)
	if err != nil {
		return nil, models.NewNotFoundError("section", sectionID)
	}
	if !plan.HasSection(sectionID) {
		return nil, models.NewNotFoundError("section", sectionID)
	}
	return section, nil
}

// ListSections returns the plan's visible sections in plan order. References
// to sections that no longer exist are skipped.
func (m *Manager) ListSections(ctx context.Context, who models.Identity, planID string) ([]*models.Section, error) {
	if err := models.ValidateID("plan_id", planID); err != nil {
		return nil, err
	}
	plan, err := m.ownedPlan(ctx, who, planID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Section, 0, len(plan.SectionIDs))
	for _, id := range plan.SectionIDs {
		section, err := m.sections.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			logging.Ctx(ctx).Debug().
				Str("plan_id", planID).
				Str("section_id", id).
				Msg("Skipping stale section reference")
			continue
		}
		if err != nil {
			return nil, err
		}
		if section.Hidden || section.PlanID != planID {
			continue
		}
		out = append(out, section)
	}
	return out, nil
}

// AddWaypoint appends placeID to the section's waypoints. Adding a place
// that is already present succeeds without changing the list; added reports
// whether the list grew.
func (m *Manager) AddWaypoint(ctx context.Context, who models.Identity, sectionID, placeID string) (section *models.Section, added bool, err error) {
	if err := models.ValidateID("place_id", placeID); err != nil {
		return nil, false, err
	}
	if _, err := m.GetSection(ctx, who, sectionID); err != nil {
		return nil, false, err
	}
	if err := m.requireVisiblePlace(ctx, placeID); err != nil {
		return nil, false, err
	}

	section, err = m.sections.Update(ctx, sectionID, func(s *models.Section) error {
		added = false
		if s.WaypointIndex(placeID) >= 0 {
			return store.ErrUnchanged
		}
		s.Waypoints = append(s.Waypoints, models.Waypoint{PlaceID: placeID})
		added = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return section, added, nil
}

// RemoveWaypoint drops placeID from the section, keeping the order of the rest.
func (m *Manager) RemoveWaypoint(ctx context.Context, who models.Identity, sectionID, placeID string) (*models.Section, error) {
	if _, err := m.GetSection(ctx, who, sectionID); err != nil {
		return nil, err
	}
	return m.sections.Update(ctx, sectionID, func(s *models.Section) error {
		i := s.WaypointIndex(placeID)
		if i < 0 {
			return models.NewNotFoundError("waypoint", placeID)
		}
		s.Waypoints = append(s.Waypoints[:i:i], s.Waypoints[i+1:]...)
		return nil
	})
}

// MarkVisited moves a waypoint from not visited to visited. The transition
// is terminal: marking an already visited waypoint keeps its original time.
func (m *Manager) MarkVisited(ctx context.Context, who models.Identity, sectionID, placeID string) (*models.Section, error) {
	if _, err := m.GetSection(ctx, who, sectionID); err != nil {
		return nil, err
	}
	now := m.now()
	return m.sections.Update(ctx, sectionID, func(s *models.Section) error {
		i := s.WaypointIndex(placeID)
		if i < 0 {
			return models.NewNotFoundError("waypoint", placeID)
		}
		if s.Waypoints[i].Visited {
			return store.ErrUnchanged
		}
		visitedAt := now
		s.Waypoints[i].Visited = true
		s.Waypoints[i].VisitedAt = &visitedAt
		return nil
	})
}

// UpdateSection merges the provided fields over the section. Absent fields
// keep their values; the merged window must still be ordered.
func (m *Manager) UpdateSection(ctx context.Context, who models.Identity, sectionID string, patch models.SectionPatch) (*models.Section, error) {
	current, err := m.GetSection(ctx, who, sectionID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	return m.sections.Update(ctx, sectionID, func(s *models.Section) error {
		if patch.Start != nil {
			s.Window.Start = *patch.Start
		}
		if patch.End != nil {
			s.Window.End = *patch.End
		}
		if patch.Note != nil {
			s.Note = *patch.Note
		}
		if patch.Hidden != nil {
			s.Hidden = *patch.Hidden
		}
		return s.Window.Validate("window")
	})
}

// DeleteSection deletes the section, then strips it from its plan. If the
// plan update fails after retries, the deletion stands and a
// *models.RepairFailure is returned; the stale reference is skipped by
// readers and removed by the sweep.
func (m *Manager) DeleteSection(ctx context.Context, who models.Identity, sectionID string) error {
	if err := models.ValidateID("section_id", sectionID); err != nil {
		return err
	}
	section, err := m.sections.Get(ctx, sectionID)
	if err != nil {
		return err
	}
	if _, err := m.ownedPlan(ctx, who, section.PlanID); err != nil {
		return models.NewNotFoundError("section", sectionID)
	}

	if err := m.sections.Delete(ctx, sectionID); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	return m.repair(ctx, "delete_section", func(ctx context.Context) error {
		return m.detach(ctx, section.PlanID, sectionID)
	})
}

// detach removes sectionID from the plan's list. A missing plan has nothing
// to strip.
func (m *Manager) detach(ctx context.Context, planID, sectionID string) error {
	_, err := m.plans.Update(ctx, planID, func(p *models.Plan) error {
		kept := p.SectionIDs[:0:0]
		for _, id := range p.SectionIDs {
			if id != sectionID {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(p.SectionIDs) {
			return store.ErrUnchanged
		}
		p.SectionIDs = kept
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}

func (m *Manager) requireVisiblePlace(ctx context.Context, placeID string) error {
	place, err := m.places.Get(ctx, placeID)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError("place", placeID)
	}
	if err != nil {
		return err
	}
	if place.Hidden() {
		return models.NewNotFoundError("place", placeID)
	}
	return nil
}
