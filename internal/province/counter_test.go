// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package province

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db)
}

func mkPlace(provinceID string, status models.PlaceStatus) *models.Place {
	return &models.Place{
		Meta:       models.NewMeta(time.Now()),
		Name:       "p",
		ProvinceID: provinceID,
		Status:     status,
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	places := []*models.Place{
		mkPlace("hn", models.StatusPublic),
		mkPlace("hn", models.StatusClosed),
		mkPlace("hn", models.StatusPrivate),
		mkPlace("hue", models.StatusPublic),
		mkPlace("", models.StatusPublic),
	}

	if got := Count("hn", places); got != 2 {
		t.Errorf("Count(hn) = %d, want 2", got)
	}
	if got := Count("hue", places); got != 1 {
		t.Errorf("Count(hue) = %d, want 1", got)
	}
	if got := Count("", places); got != 1 {
		t.Errorf("Count(\"\") = %d, want 1", got)
	}
}

func TestAffected(t *testing.T) {
	t.Parallel()

	pub := mkPlace("hn", models.StatusPublic)
	hidden := mkPlace("hn", models.StatusPrivate)
	moved := mkPlace("hue", models.StatusPublic)
	renamed := mkPlace("hn", models.StatusClosed)

	tests := []struct {
		name   string
		before *models.Place
		after  *models.Place
		want   []string
	}{
		{"create", nil, pub, []string{"hn"}},
		{"hide", pub, hidden, []string{"hn"}},
		{"move", pub, moved, []string{"hn", "hue"}},
		{"no visibility change", pub, renamed, nil},
		{"no province", nil, mkPlace("", models.StatusPublic), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Affected(tt.before, tt.after)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Affected = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCounter_RecountCorrectsDrift(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	hn := &models.Province{Meta: models.NewMeta(time.Now()), Name: "Hà Nội", PlaceCount: 17}
	hue := &models.Province{Meta: models.NewMeta(time.Now()), Name: "Huế"}
	for _, pv := range []*models.Province{hn, hue} {
		if err := st.Provinces.Insert(ctx, pv); err != nil {
			t.Fatalf("insert province: %v", err)
		}
	}
	for _, p := range []*models.Place{
		mkPlace(hn.ID, models.StatusPublic),
		mkPlace(hn.ID, models.StatusPrivate),
		mkPlace(hue.ID, models.StatusPublic),
		mkPlace(hue.ID, models.StatusClosed),
	} {
		if err := st.Places.Insert(ctx, p); err != nil {
			t.Fatalf("insert place: %v", err)
		}
	}

	c := NewCounter(st.Provinces, st.ProvinceCounts)

	changed, err := c.Recount(ctx, hn.ID, "does-not-exist")
	if err != nil {
		t.Fatalf("Recount failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	got, _ := st.Provinces.Get(ctx, hn.ID)
	if got.PlaceCount != 1 {
		t.Errorf("hn PlaceCount = %d, want 1", got.PlaceCount)
	}

	changed, err = c.RecountAll(ctx)
	if err != nil {
		t.Fatalf("RecountAll failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("RecountAll changed = %d, want 1 (only hue)", changed)
	}
	got, _ = st.Provinces.Get(ctx, hue.ID)
	if got.PlaceCount != 2 {
		t.Errorf("hue PlaceCount = %d, want 2", got.PlaceCount)
	}
}

func TestCounter_ConcurrentInsertsAndRecountsConverge(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	pv := &models.Province{Meta: models.NewMeta(time.Now()), Name: "Da Nang"}
	if err := st.Provinces.Insert(ctx, pv); err != nil {
		t.Fatalf("insert province: %v", err)
	}
	c := NewCounter(st.Provinces, st.ProvinceCounts)

	const writers = 48
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := models.StatusPublic
			if i%4 == 0 {
				status = models.StatusPrivate
			}
			if err := st.Places.Insert(ctx, mkPlace(pv.ID, status)); err != nil {
				errs <- err
				return
			}
			if _, err := c.Recount(ctx, pv.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("insert or recount failed: %v", err)
	}

	got, err := st.Provinces.Get(ctx, pv.ID)
	if err != nil {
		t.Fatalf("get province: %v", err)
	}
	if want := writers - writers/4; got.PlaceCount != want {
		t.Errorf("PlaceCount = %d, want %d with no sweep in between", got.PlaceCount, want)
	}
}
