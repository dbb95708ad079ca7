// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

// maxTxnRetries bounds how often Update re-runs after a badger transaction conflict.
const maxTxnRetries = 10

// maxDerivedRetries bounds the re-runs of a Derived update. Its read set
// spans a whole collection, so unrelated writes can conflict with it.
const maxDerivedRetries = 50

// conflictBackoff is the base pause before re-running a conflicted transaction.
const conflictBackoff = time.Millisecond

// ErrUnchanged may be returned by an Update mutator to end the transaction
// without writing. Update then returns the current document and a nil error.
var ErrUnchanged = errors.New("document unchanged")

// docPtr constrains P to a pointer to T that implements models.Document.
type docPtr[T any] interface {
	*T
	models.Document
}

// Collection stores one aggregate type as JSON documents under a key prefix.
// Every write goes through a single badger transaction, so each document is
// read-modify-written atomically. Multi-document atomicity is not offered.
//
// Updates of the same document are also serialized within the process, so
// concurrent writers queue instead of burning badger conflict retries.
type Collection[T any, P docPtr[T]] struct {
	db     *badger.DB
	kind   string
	prefix string
	locks  *keyLocks
	now    func() time.Time
}

// NewCollection creates a collection for kind (e.g. "place") using keys "kind:<id>".
func NewCollection[T any, P docPtr[T]](db *badger.DB, kind string) *Collection[T, P] {
	return &Collection[T, P]{
		db:     db,
		kind:   kind,
		prefix: kind + ":",
		locks:  newKeyLocks(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Kind returns the aggregate name used in keys and errors.
func (c *Collection[T, P]) Kind() string {
	return c.kind
}

func (c *Collection[T, P]) key(id string) []byte {
	return []byte(c.prefix + id)
}

func (c *Collection[T, P]) load(txn *badger.Txn, id string) (P, error) {
	item, err := txn.Get(c.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, models.NewNotFoundError(c.kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.kind, err)
	}

	doc := P(new(T))
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, doc)
	}); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", c.kind, id, err)
	}
	return doc, nil
}

func (c *Collection[T, P]) put(txn *badger.Txn, doc P) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.kind, err)
	}
	if err := txn.Set(c.key(doc.DocID()), data); err != nil {
		return fmt.Errorf("set %s: %w", c.kind, err)
	}
	return nil
}

// Get loads a document by ID. Missing documents yield a *models.NotFoundError.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc P
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = c.load(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert writes a new document at version 1. An existing document with the
// same ID is reported as a *models.ConflictError.
func (c *Collection[T, P]) Insert(ctx context.Context, doc P) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.DocID() == "" {
		return models.NewValidationError("id", "is required")
	}

	doc.Touch(c.now())
	doc.SetDocVersion(1)

	err := c.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(c.key(doc.DocID()))
		switch {
		case err == nil:
			return &models.ConflictError{Kind: c.kind, ID: doc.DocID()}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("check %s: %w", c.kind, err)
		}
		return c.put(txn, doc)
	})
	if err != nil {
		doc.SetDocVersion(0)
		return c.translate(doc.DocID(), err)
	}
	return nil
}

// Replace overwrites a document if its stored version equals doc's version
// (compare-and-set). On success doc carries the new version.
func (c *Collection[T, P]) Replace(ctx context.Context, doc P) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := c.locks.lock(doc.DocID())
	defer unlock()

	expected := doc.DocVersion()
	err := c.db.Update(func(txn *badger.Txn) error {
		current, err := c.load(txn, doc.DocID())
		if err != nil {
			return err
		}
		if current.DocVersion() != expected {
			return &models.ConflictError{
				Kind:     c.kind,
				ID:       doc.DocID(),
				Expected: expected,
				Actual:   current.DocVersion(),
			}
		}
		doc.SetDocVersion(expected + 1)
		doc.Touch(c.now())
		return c.put(txn, doc)
	})
	if err != nil {
		doc.SetDocVersion(expected)
		return c.translate(doc.DocID(), err)
	}
	return nil
}

// Update applies fn to the current document inside one transaction and
// writes the result with an incremented version. Badger transaction
// conflicts re-run fn against fresh state, up to maxTxnRetries times.
func (c *Collection[T, P]) Update(ctx context.Context, id string, fn func(P) error) (P, error) {
	return c.update(ctx, id, maxTxnRetries, func(_ *badger.Txn, doc P) error {
		return fn(doc)
	})
}

// update is Update with access to the transaction, so fn can read other
// documents in the same snapshot. A conflict re-runs fn up to retries times.
func (c *Collection[T, P]) update(ctx context.Context, id string, retries int, fn func(*badger.Txn, P) error) (P, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var out P
		err := c.db.Update(func(txn *badger.Txn) error {
			doc, err := c.load(txn, id)
			if err != nil {
				return err
			}
			if err := fn(txn, doc); err != nil {
				if errors.Is(err, ErrUnchanged) {
					out = doc
				}
				return err
			}
			doc.SetDocVersion(doc.DocVersion() + 1)
			doc.Touch(c.now())
			if err := c.put(txn, doc); err != nil {
				return err
			}
			out = doc
			return nil
		})

		switch {
		case err == nil, errors.Is(err, ErrUnchanged):
			return out, nil
		case errors.Is(err, badger.ErrConflict):
			metrics.StoreConflicts.WithLabelValues(c.kind).Inc()
			if err := sleepCtx(ctx, conflictBackoff*time.Duration(attempt+1)); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, err
		}
	}

	return nil, &models.ConflictError{Kind: c.kind, ID: id}
}

// sleepCtx waits for d plus up to d of jitter, or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	d += rand.N(d + 1)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delete removes a document. Missing documents yield a *models.NotFoundError.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(c.key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return models.NewNotFoundError(c.kind, id)
			}
			return fmt.Errorf("check %s: %w", c.kind, err)
		}
		return txn.Delete(c.key(id))
	})
	return c.translate(id, err)
}

// List returns every document for which keep returns true (nil keeps all),
// in key order.
func (c *Collection[T, P]) List(ctx context.Context, keep func(P) bool) ([]P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []P
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = c.scan(txn, keep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scan iterates the collection prefix inside txn. In a read-write
// transaction every visited key joins the read set, so a concurrent write
// to any of them makes the commit fail with badger.ErrConflict.
func (c *Collection[T, P]) scan(txn *badger.Txn, keep func(P) bool) ([]P, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(c.prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []P
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		doc := P(new(T))
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, doc)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.kind, err)
		}
		if keep == nil || keep(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (c *Collection[T, P]) translate(id string, err error) error {
	if errors.Is(err, badger.ErrConflict) {
		metrics.StoreConflicts.WithLabelValues(c.kind).Inc()
		return &models.ConflictError{Kind: c.kind, ID: id}
	}
	return err
}
