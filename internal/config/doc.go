// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package config loads and validates the service configuration.

Configuration is layered with koanf v2, later layers winning:

 1. Built-in defaults
 2. An optional YAML file, found via CONFIG_PATH or DefaultConfigPaths
 3. Environment variables listed in envMappings

Example config.yaml:

	server:
	  port: 8080
	database:
	  path: /data/itinera
	ledger:
	  capacity: 5
	itinerary:
	  repair_attempts: 3
	  orphan_grace: 10m
	discovery:
	  popular_rate_threshold: 3.5
	  popular_view_threshold: 15
	  best_rate_threshold: 4

Equivalent environment overrides: HTTP_PORT, BADGER_PATH, LEDGER_CAPACITY,
ITINERARY_REPAIR_ATTEMPTS, ITINERARY_ORPHAN_GRACE, POPULAR_RATE_THRESHOLD.
JWT_SECRET is required unless AUTH_DISABLED=true.
*/
package config
