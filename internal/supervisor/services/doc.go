// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package services adapts Itinera components to suture.Service.
//
// HTTPServerService translates http.Server's blocking ListenAndServe into a
// context-aware Serve with graceful shutdown. SweepService runs the
// reconciliation pass on a ticker, and PeriodicService does the same for
// scheduled backups and audit retention. WebSocketHubService hosts the
// admin event feed.
package services
