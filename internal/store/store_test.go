// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/itinera/internal/models"
)

// newTestStore opens an in-memory database that is closed when the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return New(db)
}

func newPlace(name string) *models.Place {
	return &models.Place{
		Meta:   models.NewMeta(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Name:   name,
		Status: models.StatusPublic,
	}
}

func TestCollection_InsertAndGet(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Temple of Literature")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("Version after insert = %d, want 1", p.Version)
	}

	got, err := s.Places.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != p.Name || got.Version != 1 {
		t.Errorf("Get returned %+v", got)
	}
}

func TestCollection_InsertDuplicate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Ha Long Bay")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	dup := *p
	err := s.Places.Insert(ctx, &dup)
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate insert error = %v, want conflict", err)
	}
}

func TestCollection_GetNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Plans.Get(context.Background(), "missing")
	var nf *models.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.Kind != "plan" || nf.ID != "missing" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestCollection_ReplaceVersionCheck(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("My Son")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	a, _ := s.Places.Get(ctx, p.ID)
	b, _ := s.Places.Get(ctx, p.ID)

	a.Name = "My Son Sanctuary"
	if err := s.Places.Replace(ctx, a); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	if a.Version != 2 {
		t.Errorf("Version after replace = %d, want 2", a.Version)
	}

	b.Name = "stale write"
	err := s.Places.Replace(ctx, b)
	var ce *models.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("stale Replace error = %v, want ConflictError", err)
	}
	if ce.Expected != 1 || ce.Actual != 2 {
		t.Errorf("ConflictError = %+v", ce)
	}
	if b.Version != 1 {
		t.Errorf("failed Replace must not bump version, got %d", b.Version)
	}

	got, _ := s.Places.Get(ctx, p.ID)
	if got.Name != "My Son Sanctuary" {
		t.Errorf("stale write leaked: %q", got.Name)
	}
}

func TestCollection_UpdateIsAtomicUnderContention(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Hoi An")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	const workers = 8
	const perWorker = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := s.Places.Update(ctx, p.ID, func(doc *models.Place) error {
					doc.ViewCount++
					return nil
				})
				if err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	got, err := s.Places.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// Every successful update must be reflected: no lost updates.
	want := int64(workers*perWorker - failures)
	if got.ViewCount != want {
		t.Errorf("ViewCount = %d, want %d (failures=%d)", got.ViewCount, want, failures)
	}
	if got.Version != uint64(want)+1 {
		t.Errorf("Version = %d, want %d", got.Version, want+1)
	}
}

func TestCollection_UpdateUnchanged(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Sapa")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Places.Update(ctx, p.ID, func(*models.Place) error { return ErrUnchanged })
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}
	if got == nil || got.Version != 1 {
		t.Errorf("unchanged update should return current doc at version 1, got %+v", got)
	}
}

func TestCollection_UpdateMutatorError(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Hue")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	want := models.NewValidationError("star", "out of range")
	_, err := s.Places.Update(ctx, p.ID, func(doc *models.Place) error {
		doc.Name = "partial"
		return want
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("Update error = %v, want validation", err)
	}

	got, _ := s.Places.Get(ctx, p.ID)
	if got.Name != "Hue" {
		t.Errorf("rejected mutation was persisted: %q", got.Name)
	}
}

func TestCollection_DeleteAndList(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	a, b := newPlace("A"), newPlace("B")
	b.Status = models.StatusPrivate
	for _, p := range []*models.Place{a, b} {
		if err := s.Places.Insert(ctx, p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	// A plan must not show up in the place prefix scan.
	plan := &models.Plan{Meta: models.NewMeta(time.Now()), OwnerID: "u1", Name: "trip"}
	if err := s.Plans.Insert(ctx, plan); err != nil {
		t.Fatalf("Insert plan failed: %v", err)
	}

	all, err := s.Places.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List returned %d places, want 2", len(all))
	}

	visible, _ := s.Places.List(ctx, func(p *models.Place) bool { return !p.Hidden() })
	if len(visible) != 1 || visible[0].ID != a.ID {
		t.Errorf("filtered List = %v", visible)
	}

	if err := s.Places.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Places.Delete(ctx, a.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete error = %v, want not found", err)
	}
}

func TestCollection_CancelledContext(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Places.Get(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get with cancelled ctx = %v", err)
	}
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.Ping(); err != nil {
		t.Errorf("Ping on open store = %v", err)
	}
	if err := s.CollectGarbage(); err != nil {
		t.Errorf("CollectGarbage in memory = %v", err)
	}
}

func TestDerived_ReadsSourceInTheWriteTransaction(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	pv := &models.Province{Meta: models.NewMeta(time.Now()), Name: "Quang Nam"}
	if err := s.Provinces.Insert(ctx, pv); err != nil {
		t.Fatalf("insert province: %v", err)
	}

	const writers = 24
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := newPlace("Hoi An")
			p.ProvinceID = pv.ID
			if err := s.Places.Insert(ctx, p); err != nil {
				errs <- err
				return
			}
			_, err := s.ProvinceCounts.Update(ctx, pv.ID,
				func(p *models.Place) bool { return p.ProvinceID == pv.ID },
				func(doc *models.Province, places []*models.Place) error {
					doc.PlaceCount = len(places)
					return nil
				})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("insert or derive failed: %v", err)
	}

	got, err := s.Provinces.Get(ctx, pv.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PlaceCount != writers {
		t.Errorf("PlaceCount = %d, want %d", got.PlaceCount, writers)
	}
	if got.Version != writers+1 {
		t.Errorf("Version = %d, want %d", got.Version, writers+1)
	}
}

func TestDerived_UnchangedSkipsWrite(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	p := newPlace("Mui Ne")
	if err := s.Places.Insert(ctx, p); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.PlaceRatings.Update(ctx, p.ID, nil,
		func(*models.Place, []*models.Review) error { return ErrUnchanged })
	if err != nil {
		t.Fatalf("Update returned %v", err)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}

	if _, err := s.PlaceRatings.Update(ctx, "missing", nil,
		func(*models.Place, []*models.Review) error { return nil }); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing target err = %v, want not found", err)
	}
}

// held reports how many IDs currently have a holder or waiter.
func (k *keyLocks) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func TestKeyLocks_SerializeAndRelease(t *testing.T) {
	t.Parallel()
	k := newKeyLocks()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inside, maxInside := 0, 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.lock("a")
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("holders at once = %d, want 1", maxInside)
	}
	if n := k.held(); n != 0 {
		t.Errorf("held = %d after release, want 0", n)
	}
}
