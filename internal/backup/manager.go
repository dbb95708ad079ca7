// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package backup

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
)

const metadataFileName = "metadata.json"

// Config configures the snapshot manager.
type Config struct {
	// Dir holds the snapshot files and their metadata.
	Dir string

	// Keep is how many snapshots retention keeps. Zero keeps all.
	Keep int
}

// Manager creates, lists, verifies and prunes snapshots. Snapshot creation
// is serialized.
type Manager struct {
	cfg    Config
	source Source

	mu        sync.Mutex
	snapshots []*Snapshot

	now func() time.Time
}

// NewManager creates the backup directory if needed and loads its metadata.
func NewManager(cfg Config, source Source) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, errors.New("backup directory is required")
	}
	if cfg.Keep < 0 {
		return nil, errors.New("backup retention must not be negative")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	m := &Manager{
		cfg:    cfg,
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := m.loadMetadata(); err != nil {
		return nil, err
	}
	return m, nil
}

// Create writes a new snapshot and applies retention.
func (m *Manager) Create(ctx context.Context, trigger Trigger, notes string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	id := uuid.NewString()
	snap := &Snapshot{
		ID:        id,
		Trigger:   trigger,
		CreatedAt: start,
		FileName:  fmt.Sprintf("itinera-%s-%s.bak.gz", start.Format("20060102T150405Z"), id[:8]),
		Notes:     notes,
	}

	size, checksum, version, err := m.write(snap.FileName)
	if err != nil {
		metrics.BackupRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	snap.SizeBytes = size
	snap.Checksum = checksum
	snap.Version = version
	snap.DurationMs = time.Since(start).Milliseconds()

	m.snapshots = append(m.snapshots, snap)
	removed := m.applyRetentionLocked()
	if err := m.saveMetadataLocked(); err != nil {
		return nil, err
	}

	metrics.BackupRuns.WithLabelValues("success").Inc()
	metrics.BackupBytes.Set(float64(size))
	logging.Ctx(ctx).Info().
		Str("snapshot_id", snap.ID).
		Str("trigger", string(trigger)).
		Int64("size_bytes", size).
		Int64("duration_ms", snap.DurationMs).
		Int("pruned", removed).
		Msg("Store snapshot created")

	out := *snap
	return &out, nil
}

// write streams the backup through gzip into a temp file, then renames it.
func (m *Manager) write(fileName string) (size int64, checksum string, version uint64, err error) {
	final := filepath.Join(m.cfg.Dir, fileName)
	tmp, err := os.CreateTemp(m.cfg.Dir, ".snapshot-*")
	if err != nil {
		return 0, "", 0, fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	hasher := sha256.New()
	gz := gzip.NewWriter(io.MultiWriter(tmp, hasher))
	version, err = m.source.Backup(gz, 0)
	if err != nil {
		return 0, "", 0, fmt.Errorf("stream backup: %w", err)
	}
	if err = gz.Close(); err != nil {
		return 0, "", 0, fmt.Errorf("finish compression: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return 0, "", 0, fmt.Errorf("sync snapshot file: %w", err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, "", 0, fmt.Errorf("stat snapshot file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, "", 0, fmt.Errorf("close snapshot file: %w", err)
	}
	if err = os.Rename(tmp.Name(), final); err != nil {
		return 0, "", 0, fmt.Errorf("rename snapshot file: %w", err)
	}
	return info.Size(), hex.EncodeToString(hasher.Sum(nil)), version, nil
}

// List returns snapshots newest first.
func (m *Manager) List() []*Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Snapshot, 0, len(m.snapshots))
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		s := *m.snapshots[i]
		out = append(out, &s)
	}
	return out
}

// Get returns one snapshot.
func (m *Manager) Get(id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, _ := m.findLocked(id)
	if s == nil {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

// Delete removes a snapshot and its file.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, i := m.findLocked(id)
	if s == nil {
		return ErrNotFound
	}
	if err := os.Remove(filepath.Join(m.cfg.Dir, s.FileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	m.snapshots = append(m.snapshots[:i], m.snapshots[i+1:]...)
	return m.saveMetadataLocked()
}

// Verify recomputes the snapshot checksum.
func (m *Manager) Verify(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	sum, err := fileChecksum(filepath.Join(m.cfg.Dir, s.FileName))
	if err != nil {
		return err
	}
	if sum != s.Checksum {
		return fmt.Errorf("%w: %s", ErrCorrupted, id)
	}
	return nil
}

// Restore verifies a snapshot and loads it into target, which must be empty.
func (m *Manager) Restore(ctx context.Context, id string, target Target) error {
	if err := m.Verify(id); err != nil {
		return err
	}
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	//nolint:gosec // G304: the file name comes from our own metadata
	f, err := os.Open(filepath.Join(m.cfg.Dir, s.FileName))
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open snapshot stream: %w", err)
	}
	defer gz.Close() //nolint:errcheck // read-only

	if err := target.Load(gz, 256); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	logging.Ctx(ctx).Info().Str("snapshot_id", id).Msg("Store snapshot restored")
	return nil
}

// Stats summarizes the stored snapshots.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var st Stats
	for _, s := range m.snapshots {
		st.Count++
		st.TotalBytes += s.SizeBytes
		created := s.CreatedAt
		if st.Newest == nil || created.After(*st.Newest) {
			st.Newest = &created
		}
		if st.Oldest == nil || created.Before(*st.Oldest) {
			st.Oldest = &created
		}
	}
	return st
}

func (m *Manager) findLocked(id string) (*Snapshot, int) {
	for i, s := range m.snapshots {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

// applyRetentionLocked deletes all but the newest Keep snapshots.
func (m *Manager) applyRetentionLocked() int {
	if m.cfg.Keep == 0 || len(m.snapshots) <= m.cfg.Keep {
		return 0
	}
	excess := len(m.snapshots) - m.cfg.Keep
	for _, s := range m.snapshots[:excess] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, s.FileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Warn().Err(err).Str("snapshot_id", s.ID).Msg("Failed to remove expired snapshot")
		}
	}
	m.snapshots = append([]*Snapshot(nil), m.snapshots[excess:]...)
	return excess
}

func (m *Manager) loadMetadata() error {
	data, err := os.ReadFile(filepath.Join(m.cfg.Dir, metadataFileName))
	if errors.Is(err, os.ErrNotExist) {
		m.snapshots = []*Snapshot{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read backup metadata: %w", err)
	}
	var snapshots []*Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return fmt.Errorf("decode backup metadata: %w", err)
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	m.snapshots = snapshots
	return nil
}

func (m *Manager) saveMetadataLocked() error {
	data, err := json.MarshalIndent(m.snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup metadata: %w", err)
	}
	path := filepath.Join(m.cfg.Dir, metadataFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write backup metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace backup metadata: %w", err)
	}
	return nil
}

//nolint:gosec // G304: path is inside the backup directory
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash snapshot: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
