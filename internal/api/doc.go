// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package api exposes Itinera over HTTP with a chi router.
//
// Every response uses the APIResponse envelope:
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}
//
// Domain errors map to statuses in one place (respondServiceError):
// validation 400, not found 404, version conflict 409, anything else 500.
// When the primary write of a two-document operation succeeded but its
// follow-up did not (models.RepairFailure), the handler answers 202 with
// status "partial", the primary result in data and a REPAIR_PENDING error
// entry. Clients can treat that as success; the reconciliation sweep
// completes the follow-up.
//
// Routes under /api/v1 are rate limited per client IP, authenticated when a
// bearer token is present and authorized per role by internal/authz.
package api
