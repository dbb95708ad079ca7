// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package province maintains the derived placeCount of each province.
//
// The count is never incremented or decremented. Whenever a place is created,
// hidden, unhidden or moved between provinces, the affected provinces are
// recounted from the canonical set of non-hidden places, and the
// reconciliation sweep recounts every province periodically.
//
// A recount reads the places in the same transaction that writes the
// province, and recounts of one province run one at a time. Each place write
// is followed by its own recount, so the last recount always sees every
// committed place and concurrent writers cannot leave the count behind.
package province

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

// Count returns the number of non-hidden places referencing provinceID.
func Count(provinceID string, places []*models.Place) int {
	n := 0
	for _, p := range places {
		if p.ProvinceID == provinceID && !p.Hidden() {
			n++
		}
	}
	return n
}

// Affected returns the provinces whose count may change when a place goes
// from before to after. Either may be nil (creation). The result is sorted
// and free of duplicates and empty IDs.
func Affected(before, after *models.Place) []string {
	set := map[string]struct{}{}
	if before != nil && before.ProvinceID != "" {
		set[before.ProvinceID] = struct{}{}
	}
	if after != nil && after.ProvinceID != "" {
		set[after.ProvinceID] = struct{}{}
	}
	if before != nil && after != nil &&
		before.ProvinceID == after.ProvinceID && before.Hidden() == after.Hidden() {
		return nil
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ProvinceLister lists provinces.
type ProvinceLister interface {
	List(ctx context.Context, keep func(*models.Province) bool) ([]*models.Province, error)
}

// CountWriter updates a province from the places matching keep, read in the
// same transaction as the write. store.Store.ProvinceCounts implements it.
type CountWriter interface {
	Update(ctx context.Context, id string, keep func(*models.Place) bool,
		fn func(*models.Province, []*models.Place) error) (*models.Province, error)
}

// Counter writes derived counts back to province documents.
type Counter struct {
	provinces ProvinceLister
	writer    CountWriter
	now       func() time.Time
}

// NewCounter creates a Counter.
func NewCounter(provinces ProvinceLister, writer CountWriter) *Counter {
	return &Counter{
		provinces: provinces,
		writer:    writer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Recount recomputes placeCount for the given provinces. Provinces that do
// not exist are skipped. It returns the number of provinces whose stored
// count changed.
func (c *Counter) Recount(ctx context.Context, provinceIDs ...string) (int, error) {
	ids := make([]string, 0, len(provinceIDs))
	seen := make(map[string]struct{}, len(provinceIDs))
	for _, id := range provinceIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return c.recount(ctx, ids)
}

// RecountAll recomputes placeCount for every province.
func (c *Counter) RecountAll(ctx context.Context) (int, error) {
	provinces, err := c.provinces.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list provinces: %w", err)
	}
	ids := make([]string, len(provinces))
	for i, pv := range provinces {
		ids[i] = pv.ID
	}
	return c.recount(ctx, ids)
}

func (c *Counter) recount(ctx context.Context, ids []string) (int, error) {
	changed := 0
	for _, id := range ids {
		updated, err := c.write(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return changed, err
		}
		if updated {
			changed++
		}
	}
	return changed, nil
}

// write counts the province's places inside the province update, so the
// stored value always matches a snapshot taken after the previous write.
func (c *Counter) write(ctx context.Context, provinceID string) (bool, error) {
	changed := false
	_, err := c.writer.Update(ctx, provinceID,
		func(p *models.Place) bool { return p.ProvinceID == provinceID },
		func(pv *models.Province, places []*models.Place) error {
			n := Count(provinceID, places)
			changed = pv.PlaceCount != n
			if changed {
				logging.Ctx(ctx).Debug().
					Str("province_id", provinceID).
					Int("old", pv.PlaceCount).
					Int("new", n).
					Msg("Province place count corrected")
			}
			pv.PlaceCount = n
			pv.CountedAt = c.now()
			return nil
		})
	if err != nil {
		return false, err
	}
	if changed {
		metrics.SweepRepairs.WithLabelValues("province_count").Inc()
	}
	return changed, nil
}
