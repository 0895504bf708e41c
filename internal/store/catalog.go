package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

const metaFetchedAt = "fetched_at"

// SaveCatalog replaces the cached catalog in a single transaction.
func (s *Store) SaveCatalog(ctx context.Context, cat domain.Catalog, fetchedAt time.Time) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM courses"); err != nil {
			return fmt.Errorf("clear courses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tracks"); err != nil {
			return fmt.Errorf("clear tracks: %w", err)
		}

		insTrack, err := tx.PrepareContext(ctx,
			"INSERT INTO tracks (key, position) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("prepare track insert: %w", err)
		}
		defer insTrack.Close()

		insCourse, err := tx.PrepareContext(ctx,
			"INSERT INTO courses (track_id, title, description, hours, position) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare course insert: %w", err)
		}
		defer insCourse.Close()

		for ti, t := range cat.Tracks {
			res, err := insTrack.ExecContext(ctx, string(t.Key), ti)
			if err != nil {
				return fmt.Errorf("insert track %s: %w", t.Key, err)
			}
			trackID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("track id for %s: %w", t.Key, err)
			}
			for ci, c := range t.Courses {
				if _, err := insCourse.ExecContext(ctx, trackID, c.Title, c.Description, c.Hours, ci); err != nil {
					return fmt.Errorf("insert course %q: %w", c.Title, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			metaFetchedAt, fetchedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("save fetch time: %w", err)
		}
		return nil
	})
}

// LoadCatalog rebuilds the catalog in its saved order, along with the time
// it was fetched. Returns ErrNoCatalog when the cache is empty.
func (s *Store) LoadCatalog(ctx context.Context) (domain.Catalog, time.Time, error) {
	var cat domain.Catalog

	rows, err := s.db.QueryContext(ctx, "SELECT id, key FROM tracks ORDER BY position")
	if err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("load tracks: %w", err)
	}
	defer rows.Close()

	byID := map[int64]int{}
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return domain.Catalog{}, time.Time{}, fmt.Errorf("scan track: %w", err)
		}
		cat.Tracks = append(cat.Tracks, domain.Track{Key: domain.TrackKey(key)})
		byID[id] = len(cat.Tracks) - 1
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("iterate tracks: %w", err)
	}
	if len(cat.Tracks) == 0 {
		return domain.Catalog{}, time.Time{}, ErrNoCatalog
	}

	crows, err := s.db.QueryContext(ctx,
		"SELECT track_id, title, description, hours FROM courses ORDER BY track_id, position")
	if err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("load courses: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var trackID int64
		var c domain.Course
		if err := crows.Scan(&trackID, &c.Title, &c.Description, &c.Hours); err != nil {
			return domain.Catalog{}, time.Time{}, fmt.Errorf("scan course: %w", err)
		}
		if i, ok := byID[trackID]; ok {
			cat.Tracks[i].Courses = append(cat.Tracks[i].Courses, c)
		}
	}
	if err := crows.Err(); err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("iterate courses: %w", err)
	}

	fetchedAt, err := s.fetchedAt(ctx)
	if err != nil {
		return domain.Catalog{}, time.Time{}, err
	}
	return cat, fetchedAt, nil
}

func (s *Store) fetchedAt(ctx context.Context) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", metaFetchedAt).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load fetch time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse fetch time %q: %w", raw, err)
	}
	return t, nil
}
