// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package authz authorizes API routes by role using Casbin.
//
// Three roles form a chain: admin inherits user, which inherits anonymous.
// The embedded policy lets anonymous callers read the public catalog, users
// write their own reviews, favorites and plans, and admins do everything.
// Ownership of individual records (a review, a plan) is checked by the
// services, not here.
//
// Paths are matched with keyMatch2, so ":id" matches one segment and a
// trailing "/*" matches any suffix:
//
//	p, user, /api/v1/places/:id/reviews, write
//	p, admin, /api/v1/*, delete
//
// Decisions are cached per (role, action, path) for EnforcerConfig.CacheTTL.
package authz
