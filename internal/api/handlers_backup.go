// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/itinera/internal/audit"
	"github.com/tomtom215/itinera/internal/backup"
	"github.com/tomtom215/itinera/internal/logging"
)

type createBackupRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

type backupList struct {
	Snapshots []*backup.Snapshot `json:"snapshots"`
	Stats     backup.Stats       `json:"stats"`
}

type verifyResult struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}

// backupsEnabled answers 503 when snapshots are not configured.
func (h *Handler) backupsEnabled(w http.ResponseWriter, r *http.Request) bool {
	if h.backups == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, "backups are disabled", nil)
		return false
	}
	return true
}

// ListBackups handles GET /api/v1/admin/backups.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if !h.backupsEnabled(w, r) {
		return
	}
	respondOK(w, r, http.StatusOK, backupList{
		Snapshots: h.backups.List(),
		Stats:     h.backups.Stats(),
	})
}

// CreateBackup handles POST /api/v1/admin/backups. An empty body is allowed.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if !h.backupsEnabled(w, r) {
		return
	}
	var in createBackupRequest
	if r.ContentLength != 0 {
		if err := bind(w, r, &in); err != nil {
			respondServiceError(w, r, err)
			return
		}
	}

	snap, err := h.backups.Create(r.Context(), backup.TriggerManual, in.Notes)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Manual backup failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "backup failed", nil)
		return
	}
	h.recordAdmin(r, audit.EventTypeBackup, "create",
		&audit.Target{ID: snap.ID, Type: "backup"}, "Manual store snapshot created",
		map[string]interface{}{"size_bytes": snap.SizeBytes, "file": snap.FileName})
	respondOK(w, r, http.StatusCreated, snap)
}

// DeleteBackup handles DELETE /api/v1/admin/backups/{id}.
func (h *Handler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	if !h.backupsEnabled(w, r) {
		return
	}
	id := urlParam(r, "id")
	if err := h.backups.Delete(id); err != nil {
		respondBackupError(w, r, err)
		return
	}
	h.recordAdmin(r, audit.EventTypeBackup, "delete",
		&audit.Target{ID: id, Type: "backup"}, "Store snapshot deleted", nil)
	w.WriteHeader(http.StatusNoContent)
}

// VerifyBackup handles POST /api/v1/admin/backups/{id}/verify. A checksum
// mismatch is reported as a successful call with valid=false.
func (h *Handler) VerifyBackup(w http.ResponseWriter, r *http.Request) {
	if !h.backupsEnabled(w, r) {
		return
	}
	id := urlParam(r, "id")
	err := h.backups.Verify(id)
	switch {
	case err == nil:
		respondOK(w, r, http.StatusOK, verifyResult{ID: id, Valid: true})
	case errors.Is(err, backup.ErrCorrupted):
		logging.Ctx(r.Context()).Warn().Str("snapshot_id", id).Msg("Snapshot failed verification")
		respondOK(w, r, http.StatusOK, verifyResult{ID: id, Valid: false})
	default:
		respondBackupError(w, r, err)
	}
}

func respondBackupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, backup.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
		return
	}
	respondServiceError(w, r, err)
}
