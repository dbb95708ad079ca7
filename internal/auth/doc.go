// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package auth turns bearer tokens into a models.Identity.
//
// Accounts, passwords and token issuance live in a separate identity
// service. This package only verifies HS256 tokens signed with the shared
// JWT_SECRET: the sub claim becomes Identity.ID and the role claim
// Identity.Role ("admin" or "user"). Handlers read the caller with
// IdentityFromContext.
package auth
