// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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

func seedPlace(t *testing.T, st *store.Store, name string) *models.Place {
	t.Helper()
	p := &models.Place{Meta: models.NewMeta(time.Now()), Name: name, Status: models.StatusPublic}
	if err := st.Places.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert place: %v", err)
	}
	return p
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(Config{}, nil); err == nil {
		t.Error("expected error for empty directory")
	}
	if _, err := NewManager(Config{Dir: t.TempDir(), Keep: -1}, nil); err == nil {
		t.Error("expected error for negative retention")
	}
}

func TestManager_CreateVerifyRestore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := newTestStore(t)
	place := seedPlace(t, src, "Vịnh Hạ Long")

	dir := t.TempDir()
	m, err := NewManager(Config{Dir: dir, Keep: 3}, src)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	snap, err := m.Create(ctx, TriggerManual, "first")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if snap.SizeBytes == 0 || snap.Checksum == "" || snap.Version == 0 {
		t.Errorf("snapshot = %+v", snap)
	}
	if _, err := os.Stat(filepath.Join(dir, snap.FileName)); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	if err := m.Verify(snap.ID); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	dst := newTestStore(t)
	if err := m.Restore(ctx, snap.ID, dst); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	got, err := dst.Places.Get(ctx, place.ID)
	if err != nil {
		t.Fatalf("restored place missing: %v", err)
	}
	if got.Name != place.Name {
		t.Errorf("restored name = %q, want %q", got.Name, place.Name)
	}

	// Metadata survives a restart.
	reopened, err := NewManager(Config{Dir: dir, Keep: 3}, src)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if s, err := reopened.Get(snap.ID); err != nil || s.Checksum != snap.Checksum {
		t.Errorf("reopened Get = %+v, %v", s, err)
	}
}

func TestManager_Retention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := newTestStore(t)
	seedPlace(t, src, "Phố cổ Hội An")

	dir := t.TempDir()
	m, err := NewManager(Config{Dir: dir, Keep: 2}, src)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	var created []*Snapshot
	for i := 0; i < 3; i++ {
		s, err := m.Create(ctx, TriggerScheduled, "")
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		created = append(created, s)
	}

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("List = %d snapshots, want 2", len(list))
	}
	if list[0].ID != created[2].ID || list[1].ID != created[1].ID {
		t.Errorf("List order = %s, %s; want newest first", list[0].ID, list[1].ID)
	}
	if _, err := os.Stat(filepath.Join(dir, created[0].FileName)); !os.IsNotExist(err) {
		t.Errorf("expired snapshot file still present: %v", err)
	}
	if _, err := m.Get(created[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get expired = %v, want ErrNotFound", err)
	}

	stats := m.Stats()
	if stats.Count != 2 || stats.TotalBytes != list[0].SizeBytes+list[1].SizeBytes {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestManager_CorruptionAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := newTestStore(t)
	seedPlace(t, src, "Cố đô Huế")

	dir := t.TempDir()
	m, err := NewManager(Config{Dir: dir}, src)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	snap, err := m.Create(ctx, TriggerManual, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, snap.FileName), []byte("not a snapshot"), 0o600); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}
	if err := m.Verify(snap.ID); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Verify = %v, want ErrCorrupted", err)
	}
	if err := m.Restore(ctx, snap.ID, newTestStore(t)); !errors.Is(err, ErrCorrupted) {
		t.Errorf("Restore = %v, want ErrCorrupted", err)
	}

	if err := m.Delete(snap.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(snap.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if len(m.List()) != 0 {
		t.Error("List not empty after delete")
	}
}
