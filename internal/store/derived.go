// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"
)

// Derived writes fields of one collection's documents that are computed
// from another collection, e.g. a province's place count or a place's
// rating summary.
//
// The source documents are read in the same transaction as the target
// write. Updates of one target are serialized, so each derivation starts
// from a snapshot that includes every source write committed before it, and
// a concurrent change to a source document that was read aborts the commit
// and re-runs the derivation.
type Derived[T any, P docPtr[T], S any, SP docPtr[S]] struct {
	target *Collection[T, P]
	source *Collection[S, SP]
}

// NewDerived pairs target with the source it is derived from. Both must
// share one database.
func NewDerived[T any, P docPtr[T], S any, SP docPtr[S]](target *Collection[T, P], source *Collection[S, SP]) *Derived[T, P, S, SP] {
	return &Derived[T, P, S, SP]{target: target, source: source}
}

// Update loads target document id and the source documents accepted by keep,
// and applies fn to both. fn may return ErrUnchanged to skip the write.
func (d *Derived[T, P, S, SP]) Update(ctx context.Context, id string, keep func(SP) bool, fn func(P, []SP) error) (P, error) {
	return d.target.update(ctx, id, maxDerivedRetries, func(txn *badger.Txn, doc P) error {
		matched, err := d.source.scan(txn, keep)
		if err != nil {
			return err
		}
		return fn(doc, matched)
	})
}
