// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package backup takes and manages snapshots of the document store.
//
// A snapshot is badger's full backup stream, gzip-compressed, written to a
// temporary file and renamed into place once complete. Its SHA-256 checksum
// is recorded in metadata.json next to the snapshot files:
//
//	<dir>/
//	  metadata.json
//	  itinera-20260301T120000Z-1a2b3c4d.bak.gz
//
// Retention keeps the newest Keep snapshots; older ones are deleted after
// every successful snapshot.
//
// Restore loads a snapshot into an empty database. It is meant for disaster
// recovery into a fresh data directory, not for rolling back a live store.
//
// Usage:
//
//	manager, err := backup.NewManager(backup.Config{Dir: "/data/backups", Keep: 7}, st)
//	snap, err := manager.Create(ctx, backup.TriggerManual, "before migration")
//	err = manager.Verify(snap.ID)
package backup
