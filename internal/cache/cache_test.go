// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ttl)
	c.now = clock.now
	return c, clock
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}
	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %q, %v; want v, true", got, ok)
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate = %v, want 50", rate)
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(time.Minute)

	c.Set("k", "v")
	clock.advance(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
	if s := c.GetStats(); s.Evictions != 1 || s.TotalKeys != 0 {
		t.Errorf("stats after lazy expiry = %+v", s)
	}
}

func TestCache_Cleanup(t *testing.T) {
	t.Parallel()
	c, clock := newTestCache(time.Minute)

	c.Set("old", "1")
	clock.advance(30 * time.Second)
	c.Set("fresh", "2")
	clock.advance(45 * time.Second)

	if n := c.Cleanup(); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("unexpired entry removed")
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("LastCleanup not recorded")
	}
}

func TestCache_DeletePrefixAndClear(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("places:%d", i), "x")
	}
	c.Set("users:1", "y")

	if n := c.DeletePrefix("places:"); n != 3 {
		t.Errorf("DeletePrefix removed %d, want 3", n)
	}
	if _, ok := c.Get("users:1"); !ok {
		t.Error("unrelated key removed")
	}

	c.Delete("users:1")
	c.Delete("users:1")
	if s := c.GetStats(); s.Evictions != 4 || s.TotalKeys != 0 {
		t.Errorf("stats = %+v, want 4 evictions and no keys", s)
	}

	c.Set("a", "1")
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("Clear left entries behind")
	}
}

func TestCache_DisabledTTL(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(0)
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Error("cache with zero TTL stored a value")
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type query struct {
		Text  string
		Limit int
	}
	a := GenerateKey("places:search", query{"pho", 10})
	b := GenerateKey("places:search", query{"pho", 10})
	c := GenerateKey("places:search", query{"pho", 11})

	if a != b {
		t.Error("same params produced different keys")
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if !strings.HasPrefix(a, "places:search:") {
		t.Errorf("key %q lacks namespace prefix", a)
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%10)
				c.Set(key, i)
				c.Get(key)
				if j%50 == 0 {
					c.DeletePrefix("k")
				}
			}
		}(i)
	}
	wg.Wait()
}
