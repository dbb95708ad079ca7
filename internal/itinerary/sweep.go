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
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/store"
)

// Report summarizes one reconciliation sweep.
type Report struct {
	OrphansRemoved   int `json:"orphans_removed"`
	StaleRefsRemoved int `json:"stale_refs_removed"`
}

// Sweep restores referential consistency between plans and sections.
//
// Sections whose plan does not list them are deleted once older than
// OrphanGrace, so that a section whose parent update is still being retried
// is left alone. References to sections that are missing or belong to
// another plan are removed from the plan.
func (m *Manager) Sweep(ctx context.Context) (Report, error) {
	var report Report

	plans, err := m.plans.List(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("list plans: %w", err)
	}
	sections, err := m.sections.List(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("list sections: %w", err)
	}

	byPlan := make(map[string]*models.Plan, len(plans))
	for _, p := range plans {
		byPlan[p.ID] = p
	}
	byID := make(map[string]*models.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	cutoff := m.now().Add(-m.cfg.OrphanGrace)
	for _, s := range sections {
		if p, ok := byPlan[s.PlanID]; ok && p.HasSection(s.ID) {
			continue
		}
		if s.CreatedAt.After(cutoff) {
			continue
		}
		if err := m.wait(ctx); err != nil {
			return report, err
		}
		err := m.sections.Delete(ctx, s.ID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return report, fmt.Errorf("delete orphan section %s: %w", s.ID, err)
		}
		report.OrphansRemoved++
		metrics.SweepRepairs.WithLabelValues("orphan_section").Inc()
		logging.Ctx(ctx).Info().
			Str("section_id", s.ID).
			Str("plan_id", s.PlanID).
			Msg("Removed orphan section")
	}

	for _, p := range plans {
		stale := false
		for _, id := range p.SectionIDs {
			if s, ok := byID[id]; !ok || s.PlanID != p.ID {
				stale = true
				break
			}
		}
		if !stale {
			continue
		}
		if err := m.wait(ctx); err != nil {
			return report, err
		}

		removed, err := m.stripStale(ctx, p.ID)
		if err != nil {
			return report, err
		}
		if removed > 0 {
			report.StaleRefsRemoved += removed
			metrics.SweepRepairs.WithLabelValues("stale_reference").Add(float64(removed))
			logging.Ctx(ctx).Info().
				Str("plan_id", p.ID).
				Int("removed", removed).
				Msg("Removed stale section references")
		}
	}

	return report, nil
}

// wait blocks until the sweep may issue its next repair write.
func (m *Manager) wait(ctx context.Context) error {
	if m.pace == nil {
		return nil
	}
	return m.pace.Wait(ctx)
}

// stripStale re-checks every reference of the plan against the store inside
// the update, so sections created since the sweep started are kept.
func (m *Manager) stripStale(ctx context.Context, planID string) (int, error) {
	removed := 0
	_, err := m.plans.Update(ctx, planID, func(p *models.Plan) error {
		removed = 0
		kept := make([]string, 0, len(p.SectionIDs))
		for _, id := range p.SectionIDs {
			s, err := m.sections.Get(ctx, id)
			if errors.Is(err, models.ErrNotFound) {
				removed++
				continue
			}
			if err != nil {
				return err
			}
			if s.PlanID != p.ID {
				removed++
				continue
			}
			kept = append(kept, id)
		}
		if removed == 0 {
			return store.ErrUnchanged
		}
		p.SectionIDs = kept
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("strip stale references of plan %s: %w", planID, err)
	}
	return removed, nil
}
