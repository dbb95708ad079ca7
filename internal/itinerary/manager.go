// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/itinera/internal/models"
)

// PlanStore is the plan collection as used by the manager.
type PlanStore interface {
	Get(ctx context.Context, id string) (*models.Plan, error)
	Insert(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, id string, fn func(*models.Plan) error) (*models.Plan, error)
	List(ctx context.Context, keep func(*models.Plan) bool) ([]*models.Plan, error)
}

// SectionStore is the section collection as used by the manager.
type SectionStore interface {
	Get(ctx context.Context, id string) (*models.Section, error)
	Insert(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, id string, fn func(*models.Section) error) (*models.Section, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, keep func(*models.Section) bool) ([]*models.Section, error)
}

// PlaceReader resolves waypoint targets.
type PlaceReader interface {
	Get(ctx context.Context, id string) (*models.Place, error)
}

// Config tunes the repair protocol and the sweep.
type Config struct {
	// RepairAttempts bounds parent-plan updates after a section write.
	RepairAttempts int

	// RepairDelay is the first backoff delay; it doubles per attempt.
	RepairDelay time.Duration

	// BreakerFailures consecutive repair failures open the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration

	// OrphanGrace is the minimum age of an unreferenced section before the
	// sweep deletes it. It must exceed the worst-case repair duration.
	OrphanGrace time.Duration

	// SweepWritesPerSecond paces the sweep's repair writes. Zero is unpaced.
	SweepWritesPerSecond float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RepairAttempts:  3,
		RepairDelay:     50 * time.Millisecond,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		OrphanGrace:     10 * time.Minute,
	}
}

// Manager keeps the plan -> section -> waypoint hierarchy consistent.
//
// A plan's SectionIDs and a section's PlanID are two copies of the same
// relationship in two documents that cannot be written atomically. Writes
// always go child first:
//
//   - create: insert the section, then append it to the plan
//   - delete: delete the section, then strip it from the plan
//
// A failure between the two steps leaves either an orphan section (exists,
// unreferenced) or a stale reference (referenced, missing). Reads never
// expose orphans and silently skip stale references; Sweep removes both.
type Manager struct {
	plans    PlanStore
	sections SectionStore
	places   PlaceReader
	cfg      Config
	breaker  *gobreaker.CircuitBreaker[struct{}]
	pace     *rate.Limiter
	now      func() time.Time
}

// NewManager creates a Manager.
func NewManager(plans PlanStore, sections SectionStore, places PlaceReader, cfg Config) *Manager {
	if cfg.RepairAttempts < 1 {
		cfg.RepairAttempts = 1
	}
	m := &Manager{
		plans:    plans,
		sections: sections,
		places:   places,
		cfg:      cfg,
		breaker:  newRepairBreaker(cfg),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if cfg.SweepWritesPerSecond > 0 {
		m.pace = rate.NewLimiter(rate.Limit(cfg.SweepWritesPerSecond), 1)
	}
	return m
}

// SetClock overrides the time source. Used by tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// NewPlan is the input of CreatePlan.
type NewPlan struct {
	Name     string    `json:"name" validate:"required,min=1,max=200"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Note     string    `json:"note,omitempty" validate:"max=2000"`
	PhotoURL string    `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// CreatePlan creates an empty plan owned by who.
func (m *Manager) CreatePlan(ctx context.Context, who models.Identity, in NewPlan) (*models.Plan, error) {
	if who.ID == "" {
		return nil, models.NewValidationError("owner", "is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	window := models.TimeWindow{Start: in.Start, End: in.End}
	if err := window.Validate("window"); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		Meta:       models.NewMeta(m.now()),
		OwnerID:    who.ID,
		Name:       in.Name,
		Window:     window,
		Note:       in.Note,
		PhotoURL:   in.PhotoURL,
		SectionIDs: []string{},
	}
	if err := m.plans.Insert(ctx, plan); err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return plan, nil
}

// GetPlan returns a visible plan owned by who. Plans owned by someone else
// are reported as not found.
func (m *Manager) GetPlan(ctx context.Context, who models.Identity, planID string) (*models.Plan, error) {
	if err := models.ValidateID("plan_id", planID); err != nil {
		return nil, err
	}
	plan, err := m.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Hidden || !plan.OwnedBy(who) {
		return nil, models.NewNotFoundError("plan", planID)
	}
	return plan, nil
}

// ListPlans returns who's visible plans ordered by start time.
func (m *Manager) ListPlans(ctx context.Context, who models.Identity) ([]*models.Plan, error) {
	plans, err := m.plans.List(ctx, func(p *models.Plan) bool {
		return !p.Hidden && p.OwnerID == who.ID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Window.Start.Before(plans[j].Window.Start)
	})
	return plans, nil
}

// UpdatePlan applies a partial update to a plan.
func (m *Manager) UpdatePlan(ctx context.Context, who models.Identity, planID string, patch models.PlanPatch) (*models.Plan, error) {
	if _, err := m.GetPlan(ctx, who, planID); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, models.NewValidationError("name", "must not be blank")
	}

	return m.plans.Update(ctx, planID, func(p *models.Plan) error {
		if p.Hidden {
			return models.NewNotFoundError("plan", planID)
		}
		patch.Apply(p, m.now())
		return p.Window.Validate("window")
	})
}

// DeletePlan hides a plan. Its sections stay referenced and become
// unreachable with it.
func (m *Manager) DeletePlan(ctx context.Context, who models.Identity, planID string) error {
	if _, err := m.GetPlan(ctx, who, planID); err != nil {
		return err
	}
	_, err := m.plans.Update(ctx, planID, func(p *models.Plan) error {
		p.Hidden = true
		return nil
	})
	return err
}

// ownedPlan loads a plan for a section operation: it must exist, be visible
// and belong to who.
func (m *Manager) ownedPlan(ctx context.Context, who models.Identity, planID string) (*models.Plan, error) {
	plan, err := m.plans.Get(ctx, planID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFoundError("plan", planID)
	}
	if err != nil {
		return nil, err
	}
	if plan.Hidden || !plan.OwnedBy(who) {
		return nil, models.NewNotFoundError("plan", planID)
	}
	return plan, nil
}
