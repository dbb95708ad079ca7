// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/models"
)

// Options configures the underlying badger database.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests and ephemeral deployments.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// Store bundles one collection per aggregate over a shared badger database.
type Store struct {
	db *badger.DB

	Places     *Collection[models.Place, *models.Place]
	Reviews    *Collection[models.Review, *models.Review]
	Provinces  *Collection[models.Province, *models.Province]
	Categories *Collection[models.Category, *models.Category]
	Tags       *Collection[models.Tag, *models.Tag]
	Users      *Collection[models.User, *models.User]
	Plans      *Collection[models.Plan, *models.Plan]
	Sections   *Collection[models.Section, *models.Section]

	// ProvinceCounts derives provinces from the places that reference them.
	ProvinceCounts *Derived[models.Province, *models.Province, models.Place, *models.Place]

	// PlaceRatings derives place rating summaries from their reviews.
	PlaceRatings *Derived[models.Place, *models.Place, models.Review, *models.Review]
}

// Open opens (or creates) the database described by opts.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("store: path is required unless in-memory")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).
		WithLogger(badgerLogger{l: logging.WithComponent("badger")})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return New(db), nil
}

// New wraps an already opened database.
func New(db *badger.DB) *Store {
	s := &Store{
		db:         db,
		Places:     NewCollection[models.Place](db, "place"),
		Reviews:    NewCollection[models.Review](db, "review"),
		Provinces:  NewCollection[models.Province](db, "province"),
		Categories: NewCollection[models.Category](db, "category"),
		Tags:       NewCollection[models.Tag](db, "tag"),
		Users:      NewCollection[models.User](db, "user"),
		Plans:      NewCollection[models.Plan](db, "plan"),
		Sections:   NewCollection[models.Section](db, "section"),
	}
	s.ProvinceCounts = NewDerived(s.Provinces, s.Places)
	s.PlaceRatings = NewDerived(s.Places, s.Reviews)
	return s
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is open.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("store: database is closed")
	}
	return nil
}

// DB returns the underlying database for components that keep their own
// key space in it, such as the audit trail.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Backup streams every key committed after version since to w and returns
// the highest version written.
func (s *Store) Backup(w io.Writer, since uint64) (uint64, error) {
	return s.db.Backup(w, since)
}

// Load restores a backup stream. The database must be empty.
func (s *Store) Load(r io.Reader, maxPendingWrites int) error {
	return s.db.Load(r, maxPendingWrites)
}

// CollectGarbage runs one value-log GC cycle. badger.ErrNoRewrite means
// there was nothing to reclaim and is not an error.
func (s *Store) CollectGarbage() error {
	if s.db.Opts().InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return fmt.Errorf("value log gc: %w", err)
}

// badgerLogger routes badger's internal logging to zerolog. Info and debug
// chatter is demoted to debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}
