// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package middleware provides the HTTP middleware specific to Itinera:
// request ID propagation into the logging context and Prometheus request
// instrumentation. Generic concerns (panic recovery, real IP, CORS, rate
// limiting) come from chi and its companion packages.
package middleware
