// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package main is the entry point for the Itinera server.

Itinera serves a catalogue of places (with ratings, provinces, categories and
tags) and per-user trip plans made of time-boxed sections of waypoints.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("itinera")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── Sweep service (reconciliation passes, optional)
	│   ├── Audit retention service (optional)
	│   └── Backup service (scheduled snapshots, optional)
	└── APISupervisor ("api-layer")
	    ├── WebSocket hub (admin event feed, optional)
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB document collections
 4. Audit logger and backup manager (optional)
 5. Catalog service and itinerary manager
 6. Authentication (JWT) and authorization (Casbin route policy)
 7. Reconciler: province recount, rating rebuild, orphan sweep, cache cleanup
 8. Supervisor tree and HTTP server

# Configuration

Configuration is loaded via Koanf v2 (environment > config file > defaults):

	HTTP_PORT=8080
	BADGER_PATH=/data/itinera
	JWT_SECRET=<32+ chars>
	SWEEP_ENABLED=true
	SWEEP_INTERVAL=5m
	AUDIT_RETENTION=2160h
	BACKUP_ENABLED=true
	BACKUP_DIR=/data/itinera-backups
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the periodic services finish or abandon their current run, the
audit logger drains its buffer, and the store is closed last.
*/
package main
