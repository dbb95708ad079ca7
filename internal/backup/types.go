// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package backup

import (
	"errors"
	"io"
	"time"
)

// Trigger indicates what initiated a snapshot.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
)

// Snapshot is the metadata of one stored snapshot.
type Snapshot struct {
	ID        string    `json:"id"`
	Trigger   Trigger   `json:"trigger"`
	CreatedAt time.Time `json:"created_at"`

	// FileName is relative to the backup directory.
	FileName  string `json:"file_name"`
	SizeBytes int64  `json:"size_bytes"`

	// Checksum is the hex SHA-256 of the compressed file.
	Checksum string `json:"checksum"`

	// Version is the highest badger commit version included.
	Version    uint64 `json:"version"`
	DurationMs int64  `json:"duration_ms"`
	Notes      string `json:"notes,omitempty"`
}

// Stats summarizes the stored snapshots.
type Stats struct {
	Count      int        `json:"count"`
	TotalBytes int64      `json:"total_bytes"`
	Newest     *time.Time `json:"newest,omitempty"`
	Oldest     *time.Time `json:"oldest,omitempty"`
}

// Source produces a full backup stream.
type Source interface {
	Backup(w io.Writer, since uint64) (uint64, error)
}

// Target loads a backup stream into an empty database.
type Target interface {
	Load(r io.Reader, maxPendingWrites int) error
}

var (
	// ErrNotFound is returned for an unknown snapshot ID.
	ErrNotFound = errors.New("snapshot not found")

	// ErrCorrupted is returned when a snapshot no longer matches its checksum.
	ErrCorrupted = errors.New("snapshot checksum mismatch")
)
