// Package store persists fetched catalogs: a SQLite cache written by sync
// runs and a brotli-compressed snapshot file for offline use.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// ErrNoCatalog is returned when the cache has never been written.
var ErrNoCatalog = errors.New("store: no catalog cached")

const schemaVersion = 1

// Slice positions are stored explicitly so a loaded catalog keeps the exact
// track and course order it was saved with.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tracks (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		key      TEXT    NOT NULL UNIQUE,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		track_id    INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		title       TEXT    NOT NULL,
		description TEXT    NOT NULL DEFAULT '',
		hours       INTEGER NOT NULL,
		position    INTEGER NOT NULL,
		PRIMARY KEY (track_id, title)
	)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite cache at path, applies the recommended
// pragmas and brings the schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection. WAL keeps readers
	// unblocked while a sync run rewrites the catalog.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite wants pragmas as statements, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx executes fn within a transaction. The transaction is committed if fn
// returns nil, rolled back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

func (s *Store) migrate(ctx context.Context) error {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v >= schemaVersion {
		return nil
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	})
}
