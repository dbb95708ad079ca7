// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/itinera/internal/itinerary"
	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
)

// ItinerarySweeper repairs plan/section references.
type ItinerarySweeper interface {
	Sweep(ctx context.Context) (itinerary.Report, error)
}

// Catalog recomputes derived place and province data.
type Catalog interface {
	RecountProvinces(ctx context.Context, provinceIDs ...string) (int, error)
	RebuildRatings(ctx context.Context) (int, error)
}

// CacheCleaner drops expired cache entries.
type CacheCleaner interface {
	CleanupCache() int
}

// GarbageCollector reclaims storage.
type GarbageCollector interface {
	CollectGarbage() error
}

// Report summarizes one reconciliation pass.
type Report struct {
	Itinerary          itinerary.Report `json:"itinerary"`
	ProvincesRecounted int              `json:"provinces_recounted"`
	RatingsRebuilt     int              `json:"ratings_rebuilt"`
	CacheEvictions     int              `json:"cache_evictions"`
	StartedAt          time.Time        `json:"started_at"`
	DurationMs         int64            `json:"duration_ms"`
}

// Reconciler converges derived and cross-document state back to what the
// canonical documents say. Passes never overlap.
type Reconciler struct {
	mu        sync.Mutex
	itinerary ItinerarySweeper
	catalog   Catalog
	caches    []CacheCleaner
	gc        GarbageCollector
	last      *Report
}

// New creates a Reconciler. gc may be nil.
func New(it ItinerarySweeper, cat Catalog, gc GarbageCollector, caches ...CacheCleaner) *Reconciler {
	return &Reconciler{
		itinerary: it,
		catalog:   cat,
		caches:    caches,
		gc:        gc,
	}
}

// Run performs one pass. Every step runs even if an earlier one failed; the
// returned error joins the failures and the report holds what did succeed.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	report := Report{StartedAt: start.UTC()}
	var errs []error

	it, err := r.itinerary.Sweep(ctx)
	report.Itinerary = it
	if err != nil {
		errs = append(errs, fmt.Errorf("itinerary sweep: %w", err))
	}

	if ctx.Err() == nil {
		n, err := r.catalog.RecountProvinces(ctx)
		report.ProvincesRecounted = n
		if err != nil {
			errs = append(errs, fmt.Errorf("recount provinces: %w", err))
		}
	}

	if ctx.Err() == nil {
		n, err := r.catalog.RebuildRatings(ctx)
		report.RatingsRebuilt = n
		if err != nil {
			errs = append(errs, fmt.Errorf("rebuild ratings: %w", err))
		}
	}

	for _, c := range r.caches {
		report.CacheEvictions += c.CleanupCache()
	}

	if r.gc != nil && ctx.Err() == nil {
		if err := r.gc.CollectGarbage(); err != nil {
			// Storage GC is housekeeping; a failure does not fail the pass.
			logging.Ctx(ctx).Warn().Err(err).Msg("Storage garbage collection failed")
		}
	}

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}

	duration := time.Since(start)
	report.DurationMs = duration.Milliseconds()
	err = errors.Join(errs...)
	metrics.RecordSweep(duration, err)

	event := logging.Ctx(ctx).Info()
	if err != nil {
		event = logging.Ctx(ctx).Warn().Err(err)
	}
	event.
		Int("orphans_removed", report.Itinerary.OrphansRemoved).
		Int("stale_refs_removed", report.Itinerary.StaleRefsRemoved).
		Int("provinces_recounted", report.ProvincesRecounted).
		Int("ratings_rebuilt", report.RatingsRebuilt).
		Int("cache_evictions", report.CacheEvictions).
		Dur("duration", duration).
		Msg("Reconciliation pass finished")

	r.last = &report
	return report, err
}

// Last returns the report of the most recent pass, or nil.
func (r *Reconciler) Last() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	cp := *r.last
	return &cp
}
