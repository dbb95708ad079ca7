// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

// Package cache provides the TTL cache in front of place discovery queries.
//
// Listing queries (popular, best, search, nearby) scan the whole place
// collection, so their results are cached under keys built with GenerateKey.
// Every place or review write invalidates the "places:" namespace with
// DeletePrefix; the TTL only bounds staleness for writes made by other
// processes sharing the data directory.
//
// Example:
//
//	c := cache.New[[]*models.Place](30 * time.Second)
//	key := cache.GenerateKey("places:search", query)
//	if hit, ok := c.Get(key); ok {
//	    return hit, nil
//	}
package cache
