// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/itinera/internal/discovery"
	"github.com/tomtom215/itinera/internal/models"
	"github.com/tomtom215/itinera/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db)
	cfg := DefaultConfig()
	cfg.LedgerCapacity = 3
	return NewService(st, cfg), st
}

func mustProvince(t *testing.T, s *Service, name string) *models.Province {
	t.Helper()
	pv, err := s.CreateProvince(context.Background(), NewProvince{Name: name})
	if err != nil {
		t.Fatalf("CreateProvince failed: %v", err)
	}
	return pv
}

func mustPlace(t *testing.T, s *Service, in NewPlace) *models.Place {
	t.Helper()
	p, err := s.CreatePlace(context.Background(), in)
	if err != nil {
		t.Fatalf("CreatePlace(%s) failed: %v", in.Name, err)
	}
	return p
}

func placeCount(t *testing.T, st *store.Store, provinceID string) int {
	t.Helper()
	pv, err := st.Provinces.Get(context.Background(), provinceID)
	if err != nil {
		t.Fatalf("get province: %v", err)
	}
	return pv.PlaceCount
}

func intPtr(n int) *int { return &n }

func TestPlace_ProvinceCountFollowsVisibility(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()

	hn := mustProvince(t, s, "Ha Noi")
	hue := mustProvince(t, s, "Hue")

	a := mustPlace(t, s, NewPlace{Name: "Hoan Kiem", ProvinceID: hn.ID})
	mustPlace(t, s, NewPlace{Name: "Old Quarter", ProvinceID: hn.ID, Status: models.StatusClosed})
	if got := placeCount(t, st, hn.ID); got != 2 {
		t.Fatalf("hn count after creates = %d, want 2", got)
	}

	if _, err := s.HidePlace(ctx, a.ID); err != nil {
		t.Fatalf("HidePlace failed: %v", err)
	}
	if got := placeCount(t, st, hn.ID); got != 1 {
		t.Errorf("hn count after hide = %d, want 1", got)
	}

	public := models.StatusPublic
	moveTo := hue.ID
	if _, err := s.UpdatePlace(ctx, a.ID, models.PlacePatch{Status: &public, ProvinceID: &moveTo}); err != nil {
		t.Fatalf("UpdatePlace failed: %v", err)
	}
	if got := placeCount(t, st, hn.ID); got != 1 {
		t.Errorf("hn count after move = %d, want 1", got)
	}
	if got := placeCount(t, st, hue.ID); got != 1 {
		t.Errorf("hue count after move = %d, want 1", got)
	}
}

func TestCreatePlace_Validation(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)

	tests := []struct {
		name string
		in   NewPlace
	}{
		{"blank name", NewPlace{Name: " "}},
		{"bad status", NewPlace{Name: "x", Status: "archived"}},
		{"latitude out of range", NewPlace{Name: "x", Latitude: 91}},
		{"unknown province", NewPlace{Name: "x", ProvinceID: "7d1c5d3e-8a43-4f55-9b1f-2a3f3c0b9e11"}},
		{"malformed category", NewPlace{Name: "x", CategoryID: "museum"}},
		{"inverted price", NewPlace{Name: "x", Price: models.PriceRange{Start: 10, End: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreatePlace(context.Background(), tt.in)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestReviews_RatingLifecycle(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "Temple of Literature"})

	users := []models.Identity{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"}}
	stars := []int{4, 3, 3, 3}
	var reviews []*models.Review
	for i, who := range users {
		r, err := s.CreateReview(ctx, who, NewReview{PlaceID: place.ID, Star: stars[i]})
		if err != nil {
			t.Fatalf("CreateReview failed: %v", err)
		}
		reviews = append(reviews, r)
	}

	got, _ := st.Places.Get(ctx, place.ID)
	if got.ReviewCount != 4 || got.RateVoting != 3.3 || got.Histogram != (models.Histogram{0, 0, 3, 1, 0}) {
		t.Fatalf("summary = %v/%d/%v, want 3.3 over 4 reviews", got.Histogram, got.ReviewCount, got.RateVoting)
	}

	if _, err := s.UpdateReviewStar(ctx, users[1], reviews[1].ID, 5); err != nil {
		t.Fatalf("UpdateReviewStar failed: %v", err)
	}
	got, _ = st.Places.Get(ctx, place.ID)
	if got.Histogram != (models.Histogram{0, 0, 2, 1, 1}) || got.RateVoting != 3.8 {
		t.Errorf("after replace = %v/%v, want [0 0 2 1 1]/3.8", got.Histogram, got.RateVoting)
	}

	if _, err := s.HideReview(ctx, users[0], reviews[0].ID); err != nil {
		t.Fatalf("HideReview failed: %v", err)
	}
	if _, err := s.HideReview(ctx, users[0], reviews[0].ID); err != nil {
		t.Fatalf("second HideReview failed: %v", err)
	}
	got, _ = st.Places.Get(ctx, place.ID)
	if got.ReviewCount != 3 || got.Histogram != (models.Histogram{0, 0, 2, 0, 1}) {
		t.Errorf("after hide = %v/%d, want [0 0 2 0 1]/3", got.Histogram, got.ReviewCount)
	}

	listed, err := s.ListReviews(ctx, place.ID)
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("ListReviews returned %d, want 3", len(listed))
	}
}

func TestReviews_Rejections(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "Ba Na Hills"})
	owner := models.Identity{ID: "owner"}

	if _, err := s.CreateReview(ctx, owner, NewReview{PlaceID: place.ID, Star: 6}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("star 6 err = %v, want validation error", err)
	}
	r, err := s.CreateReview(ctx, owner, NewReview{PlaceID: place.ID, Star: 2})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	if _, err := s.UpdateReviewStar(ctx, owner, r.ID, 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("star 0 err = %v, want validation error", err)
	}
	if _, err := s.UpdateReviewStar(ctx, models.Identity{ID: "intruder"}, r.ID, 5); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("non-owner err = %v, want not found", err)
	}

	got, _ := st.Places.Get(ctx, place.ID)
	if got.Histogram != (models.Histogram{0, 1, 0, 0, 0}) {
		t.Errorf("rejected mutations touched the histogram: %v", got.Histogram)
	}
}

func TestReviews_DriftRebuilds(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "My Son"})
	who := models.Identity{ID: "u1"}

	r, err := s.CreateReview(ctx, who, NewReview{PlaceID: place.ID, Star: 5})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	// Lose the 5-star bucket behind the service's back.
	if _, err := st.Places.Update(ctx, place.ID, func(p *models.Place) error {
		p.Histogram = models.Histogram{}
		p.ReviewCount = 0
		p.RateVoting = 0
		return nil
	}); err != nil {
		t.Fatalf("corrupt summary: %v", err)
	}

	fixed, err := s.RebuildRatings(ctx)
	if err != nil {
		t.Fatalf("RebuildRatings failed: %v", err)
	}
	if fixed != 1 {
		t.Errorf("RebuildRatings fixed %d, want 1", fixed)
	}

	if _, err := st.Places.Update(ctx, place.ID, func(p *models.Place) error {
		p.Histogram = models.Histogram{}
		return nil
	}); err != nil {
		t.Fatalf("corrupt summary: %v", err)
	}
	// Removing from an empty bucket cannot be applied incrementally.
	if _, err := s.HideReview(ctx, who, r.ID); err != nil {
		t.Fatalf("HideReview failed: %v", err)
	}
	got, _ := st.Places.Get(ctx, place.ID)
	if got.ReviewCount != 0 || got.Histogram.Total() != 0 || got.RateVoting != 0 {
		t.Errorf("summary after rebuild = %v/%d/%v, want empty", got.Histogram, got.ReviewCount, got.RateVoting)
	}
}

func TestToggleLike(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "Hang Son Doong"})
	r, err := s.CreateReview(ctx, models.Identity{ID: "author"}, NewReview{PlaceID: place.ID, Star: 5})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	fan := models.Identity{ID: "fan"}

	got, liked, err := s.ToggleLike(ctx, fan, r.ID)
	if err != nil || !liked || got.LikeCount != 1 {
		t.Fatalf("like = %v, count %d, err %v", liked, got.LikeCount, err)
	}
	got, liked, err = s.ToggleLike(ctx, fan, r.ID)
	if err != nil || liked || got.LikeCount != 0 || len(got.LikedUsers) != 0 {
		t.Fatalf("unlike = %v, count %d, err %v", liked, got.LikeCount, err)
	}
}

func TestViewPlace_CountsAndRecords(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	who := models.Identity{ID: "viewer"}

	var places []*models.Place
	for _, name := range []string{"A", "B", "C", "D"} {
		places = append(places, mustPlace(t, s, NewPlace{Name: name}))
	}

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, idx := range []int{0, 1, 2, 0, 3} {
		s.SetClock(func() time.Time { return base.Add(time.Duration(i) * time.Minute) })
		if _, err := s.ViewPlace(ctx, &who, places[idx].ID); err != nil {
			t.Fatalf("ViewPlace failed: %v", err)
		}
	}

	a, err := s.ViewPlace(ctx, nil, places[0].ID)
	if err != nil {
		t.Fatalf("anonymous ViewPlace failed: %v", err)
	}
	if a.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", a.ViewCount)
	}

	recents, err := s.RecentPlaces(ctx, who)
	if err != nil {
		t.Fatalf("RecentPlaces failed: %v", err)
	}
	want := []string{places[3].ID, places[0].ID, places[2].ID}
	if len(recents) != len(want) {
		t.Fatalf("recents = %v, want %d entries", recents, len(want))
	}
	for i, id := range want {
		if recents[i].PlaceID != id {
			t.Errorf("recents[%d] = %s, want %s", i, recents[i].PlaceID, id)
		}
	}

	if _, err := s.HidePlace(ctx, places[1].ID); err != nil {
		t.Fatalf("HidePlace failed: %v", err)
	}
	if _, err := s.ViewPlace(ctx, &who, places[1].ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("hidden place view err = %v, want not found", err)
	}
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	who := models.Identity{ID: "traveler"}
	a := mustPlace(t, s, NewPlace{Name: "A"})
	b := mustPlace(t, s, NewPlace{Name: "B"})

	for _, id := range []string{a.ID, b.ID, a.ID} {
		if _, err := s.AddFavorite(ctx, who, id); err != nil {
			t.Fatalf("AddFavorite failed: %v", err)
		}
	}
	favs, err := s.ListFavorites(ctx, who)
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favs) != 2 || favs[0].ID != a.ID {
		t.Errorf("favorites = %d entries, want [A B]", len(favs))
	}

	if _, err := s.HidePlace(ctx, b.ID); err != nil {
		t.Fatalf("HidePlace failed: %v", err)
	}
	favs, _ = s.ListFavorites(ctx, who)
	if len(favs) != 1 {
		t.Errorf("hidden favorite still listed")
	}
	if _, err := s.AddFavorite(ctx, who, b.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("adding hidden place err = %v, want not found", err)
	}

	ids, err := s.RemoveFavorite(ctx, who, a.ID)
	if err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("favorites after remove = %v", ids)
	}
}

func TestSetUserDisabled(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "A"})
	who := models.Identity{ID: "banned"}

	if _, err := s.SetUserDisabled(ctx, who.ID, true); err != nil {
		t.Fatalf("SetUserDisabled failed: %v", err)
	}
	if _, err := s.AddFavorite(ctx, who, place.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("disabled user err = %v, want not found", err)
	}
	if _, err := s.SetUserDisabled(ctx, who.ID, false); err != nil {
		t.Fatalf("re-enable failed: %v", err)
	}
	if _, err := s.AddFavorite(ctx, who, place.ID); err != nil {
		t.Errorf("re-enabled user: %v", err)
	}
}

func TestListPlaces_CuratedSetsAndCache(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()

	hot := mustPlace(t, s, NewPlace{Name: "Hot", Popular: true})
	mustPlace(t, s, NewPlace{Name: "Cold", Popular: true})
	if _, err := st.Places.Update(ctx, hot.ID, func(p *models.Place) error {
		p.ViewCount = 100
		p.RateVoting = 4.5
		return nil
	}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	s.invalidateListings()

	popular, err := s.PopularPlaces(ctx, intPtr(10))
	if err != nil {
		t.Fatalf("PopularPlaces failed: %v", err)
	}
	if len(popular) != 1 || popular[0].ID != hot.ID {
		t.Errorf("popular = %d entries, want only Hot", len(popular))
	}
	best, _ := s.BestPlaces(ctx, nil)
	if len(best) != 1 {
		t.Errorf("best = %d entries, want 1", len(best))
	}

	// Second call is served from the cache.
	if _, err := s.PopularPlaces(ctx, intPtr(10)); err != nil {
		t.Fatalf("PopularPlaces failed: %v", err)
	}
	if s.CacheStats().Hits == 0 {
		t.Error("expected a cache hit")
	}

	// A write through the service invalidates cached listings.
	if _, err := s.HidePlace(ctx, hot.ID); err != nil {
		t.Fatalf("HidePlace failed: %v", err)
	}
	popular, _ = s.PopularPlaces(ctx, intPtr(10))
	if len(popular) != 0 {
		t.Errorf("hidden place served from a stale cache")
	}

	if _, err := s.ListPlaces(ctx, discovery.Query{Limit: intPtr(-1)}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("negative limit err = %v, want validation error", err)
	}
}

func TestSearchAndNearby(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()
	hn := mustProvince(t, s, "Ha Noi")

	ref := mustPlace(t, s, NewPlace{Name: "Hồ Hoàn Kiếm", ProvinceID: hn.ID, Latitude: 21.02, Longitude: 105.85})
	near := mustPlace(t, s, NewPlace{Name: "Đền Ngọc Sơn", ProvinceID: hn.ID, Latitude: 21.03, Longitude: 105.85})
	far := mustPlace(t, s, NewPlace{Name: "Lăng Bác", ProvinceID: hn.ID, Latitude: 21.04, Longitude: 105.83})
	mustPlace(t, s, NewPlace{Name: "Elsewhere", Latitude: 21.02, Longitude: 105.85})

	found, err := s.SearchPlaces(ctx, "ho hoan", nil)
	if err != nil {
		t.Fatalf("SearchPlaces failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != ref.ID {
		t.Errorf("search = %d results, want Hồ Hoàn Kiếm", len(found))
	}
	found, _ = s.SearchPlaces(ctx, "den ngoc", nil)
	if len(found) != 1 || found[0].ID != near.ID {
		t.Errorf("stroke-d search = %d results, want Đền Ngọc Sơn", len(found))
	}

	nearby, err := s.NearbyPlaces(ctx, ref.ID, nil)
	if err != nil {
		t.Fatalf("NearbyPlaces failed: %v", err)
	}
	if len(nearby) != 2 || nearby[0].ID != near.ID || nearby[1].ID != far.ID {
		t.Errorf("nearby order wrong: %d results", len(nearby))
	}
}

func TestTaxonomy(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	museum, err := s.CreateCategory(ctx, "Museum")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := s.CreateCategory(ctx, "Beach"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	hide := true
	if _, err := s.UpdateCategory(ctx, museum.ID, LabelPatch{Hidden: &hide}); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	visible, _ := s.ListCategories(ctx, false)
	all, _ := s.ListCategories(ctx, true)
	if len(visible) != 1 || len(all) != 2 || all[0].Name != "Beach" {
		t.Errorf("categories visible=%d all=%d", len(visible), len(all))
	}

	tag, err := s.CreateTag(ctx, "family")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	blank := " "
	if _, err := s.UpdateTag(ctx, tag.ID, LabelPatch{Name: &blank}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank tag name err = %v, want validation error", err)
	}
	p := mustPlace(t, s, NewPlace{Name: "Tagged", TagIDs: []string{tag.ID}, CategoryID: museum.ID})
	if len(p.TagIDs) != 1 {
		t.Errorf("TagIDs = %v", p.TagIDs)
	}
}

func TestCreatePlace_ConcurrentWritersKeepProvinceCount(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	hn := mustProvince(t, s, "Ha Noi")

	const rounds = 5
	const writers = 32

	total := 0
	for round := 0; round < rounds; round++ {
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.CreatePlace(ctx, NewPlace{
					Name:       fmt.Sprintf("place-%d-%d", round, i),
					ProvinceID: hn.ID,
				})
				if err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("CreatePlace failed: %v", err)
		}

		total += writers
		if got := placeCount(t, st, hn.ID); got != total {
			t.Fatalf("round %d: placeCount = %d, want %d", round, got, total)
		}
	}
}

func TestHidePlace_ConcurrentWithCreatesKeepsProvinceCount(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	hue := mustProvince(t, s, "Hue")

	var existing []*models.Place
	for i := 0; i < 16; i++ {
		existing = append(existing, mustPlace(t, s, NewPlace{Name: fmt.Sprintf("old-%d", i), ProvinceID: hue.ID}))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for _, p := range existing[:8] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.HidePlace(ctx, p.ID); err != nil {
				errs <- err
			}
		}()
	}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreatePlace(ctx, NewPlace{Name: fmt.Sprintf("new-%d", i), ProvinceID: hue.ID}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent write failed: %v", err)
	}

	if got := placeCount(t, st, hue.ID); got != 24 {
		t.Errorf("placeCount = %d, want 24 (16 + 16 created - 8 hidden)", got)
	}
}

func TestReviews_ConcurrentWritersKeepSummary(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "Trang An"})

	const reviewers = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	var reviews []*models.Review
	errs := make(chan error, reviewers)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			who := models.Identity{ID: fmt.Sprintf("reviewer-%d", i)}
			r, err := s.CreateReview(ctx, who, NewReview{PlaceID: place.ID, Star: i%5 + 1})
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			reviews = append(reviews, r)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("CreateReview failed: %v", err)
	}

	got, err := st.Places.Get(ctx, place.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	// Stars 1..5 cycle over 32 reviewers: 7,7,6,6,6 reviews per star.
	if got.ReviewCount != reviewers || got.Histogram != (models.Histogram{7, 7, 6, 6, 6}) {
		t.Fatalf("summary = %v/%d, want [7 7 6 6 6]/%d", got.Histogram, got.ReviewCount, reviewers)
	}

	hidden := make(chan error, reviewers)
	for _, r := range reviews[:16] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.HideReview(ctx, models.Identity{ID: r.UserID}, r.ID); err != nil {
				hidden <- err
			}
		}()
	}
	wg.Wait()
	close(hidden)
	for err := range hidden {
		t.Fatalf("HideReview failed: %v", err)
	}

	got, _ = st.Places.Get(ctx, place.ID)
	if got.ReviewCount != reviewers-16 || got.Histogram.Total() != reviewers-16 {
		t.Errorf("after hides = %v/%d, want %d reviews", got.Histogram, got.ReviewCount, reviewers-16)
	}
}

func TestUpdatePlace_RejectsInvertedPrice(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()
	place := mustPlace(t, s, NewPlace{Name: "Cu Chi", Price: models.PriceRange{Start: 10, End: 50}})

	inverted := models.PriceRange{Start: 100, End: 10}
	if _, err := s.UpdatePlace(ctx, place.ID, models.PlacePatch{Price: &inverted}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("inverted price err = %v, want validation error", err)
	}
	got, _ := st.Places.Get(ctx, place.ID)
	if got.Price != (models.PriceRange{Start: 10, End: 50}) {
		t.Errorf("price = %+v, want unchanged", got.Price)
	}

	ok := models.PriceRange{Start: 20, End: 80}
	updated, err := s.UpdatePlace(ctx, place.ID, models.PlacePatch{Price: &ok})
	if err != nil {
		t.Fatalf("UpdatePlace failed: %v", err)
	}
	if updated.Price != ok {
		t.Errorf("price = %+v, want %+v", updated.Price, ok)
	}
}

func TestViewPlace_RefreshesCachedListings(t *testing.T) {
	t.Parallel()
	s, st := newTestService(t)
	ctx := context.Background()

	place := mustPlace(t, s, NewPlace{Name: "Ha Long Bay", Popular: true})
	if _, err := st.Places.Update(ctx, place.ID, func(p *models.Place) error {
		p.ViewCount = 15
		p.RateVoting = 4.8
		return nil
	}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	s.invalidateListings()

	popular, err := s.PopularPlaces(ctx, nil)
	if err != nil {
		t.Fatalf("PopularPlaces failed: %v", err)
	}
	if len(popular) != 0 {
		t.Fatalf("popular = %d entries, want none at 15 views", len(popular))
	}

	if _, err := s.ViewPlace(ctx, nil, place.ID); err != nil {
		t.Fatalf("ViewPlace failed: %v", err)
	}
	popular, _ = s.PopularPlaces(ctx, nil)
	if len(popular) != 1 || popular[0].ViewCount != 16 {
		t.Errorf("popular after the 16th view = %d entries, want Ha Long Bay", len(popular))
	}
}
