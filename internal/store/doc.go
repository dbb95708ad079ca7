// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

/*
Package store is the BadgerDB document store behind Itinera.

Each aggregate lives in its own Collection, keyed "<kind>:<id>" and encoded
with goccy/go-json. The store guarantees exactly what the domain layer relies
on and nothing more:

  - atomic single-document reads (Get)
  - atomic single-document read-modify-write (Update), re-run on badger
    transaction conflicts
  - compare-and-set on the document version (Replace)
  - no multi-document transactions

Cross-aggregate consistency (plan and section lists, province counts, place
ratings) is the business of the domain packages and the reconciliation sweep.

Usage:

	st, err := store.Open(store.Options{Path: "/data/itinera"})
	if err != nil {
	    return err
	}
	defer st.Close()

	place, err := st.Places.Update(ctx, id, func(p *models.Place) error {
	    p.ViewCount++
	    return nil
	})
*/
package store
