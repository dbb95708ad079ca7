// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// All collectors are registered on the default registry through promauto at
// package init, so importing the package is enough to expose them.
package metrics
