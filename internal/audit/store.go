// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package audit

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const keyPrefix = "audit:"

// BadgerStore implements Store on a badger database shared with the
// document collections.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a store over db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func eventKey(ts time.Time, id string) []byte {
	key := make([]byte, 0, len(keyPrefix)+9+len(id))
	key = append(key, keyPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(ts.UnixNano()))
	key = append(key, ':')
	return append(key, id...)
}

func keyTime(key []byte) uint64 {
	if len(key) < len(keyPrefix)+8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(keyPrefix) : len(keyPrefix)+8])
}

// Save persists an audit event.
func (s *BadgerStore) Save(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(event.Timestamp, event.ID), data)
	})
}

// Query returns matching events, newest first.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	seek := append([]byte(keyPrefix), 0xFF)
	if filter.Until != nil {
		seek = binary.BigEndian.AppendUint64([]byte(keyPrefix), uint64(filter.Until.UnixNano()))
		seek = append(seek, 0xFF)
	}
	var since uint64
	if filter.Since != nil {
		since = uint64(filter.Since.UnixNano())
	}

	events := make([]Event, 0, min(limit, 64))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if keyTime(item.Key()) < since {
				break
			}

			var e Event
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode audit event: %w", err)
			}
			if !filter.matches(&e) {
				continue
			}
			events = append(events, e)
			if len(events) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes events recorded before olderThan and returns how many.
func (s *BadgerStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.UnixNano() <= 0 {
		return 0, nil
	}
	cutoff := uint64(olderThan.UnixNano())

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			if keyTime(key) >= cutoff {
				break
			}
			keys = append(keys, bytes.Clone(key))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			wb.Cancel()
			return 0, fmt.Errorf("delete audit event: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush audit deletes: %w", err)
	}
	return int64(len(keys)), nil
}

var _ Store = (*BadgerStore)(nil)
