// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package reconcile runs the periodic consistency pass.
//
// A pass, in order:
//
//  1. deletes orphan sections past their grace period and strips stale
//     section references from plans
//  2. recounts every province's placeCount
//  3. rebuilds place rating summaries that drifted from their reviews
//  4. evicts expired listing and authorization cache entries
//  5. runs one storage GC cycle
//
// The pass is triggered on a ticker by the sweep service and on demand by
// the admin API.
package reconcile
