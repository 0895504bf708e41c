// Package recommend implements the recommendation engine: indexes derived
// from a track catalog, a progress filter that removes completed courses,
// and the ranking that orders the remaining courses by how close they bring
// the learner to finishing a track.
package recommend

import (
	"github.com/faisaljina/dc-recommender/internal/domain"
)

// Snapshot is the immutable working state for one (catalog, completed-set)
// pair: the reduced catalog, the live remaining hours per track, and the
// full-catalog indexes. Build a new one whenever either input changes; a
// built snapshot is never mutated and is safe to share across goroutines.
type Snapshot struct {
	Reduced   domain.Catalog
	Remaining map[domain.TrackKey]int
	Indexes   Indexes
}

// NewSnapshot indexes the full catalog and applies the completed-set. There
// is no incremental update path: everything is recomputed from scratch so
// the remaining hours can never go stale against the completed-set.
func NewSnapshot(cat domain.Catalog, completed map[string]struct{}) *Snapshot {
	reduced, remaining := ApplyProgress(cat, completed)
	return &Snapshot{
		Reduced:   reduced,
		Remaining: remaining,
		Indexes:   BuildIndexes(cat),
	}
}

// ApplyProgress removes completed courses from every track and recomputes
// the per-track remaining hours. Tracks left with exactly zero remaining
// hours are dropped from both results: they are finished (or never had
// content) and must not appear in any recommendation output.
//
// Hours are a property of the course, not of the (track, course) pairing.
// When tracks disagree, the value processed last in catalog order wins,
// same as descriptions, and the reduced catalog carries that settled value
// everywhere. Never an average.
func ApplyProgress(cat domain.Catalog, completed map[string]struct{}) (domain.Catalog, map[domain.TrackKey]int) {
	courseHours := make(map[string]int)
	for _, t := range cat.Tracks {
		for _, c := range t.Courses {
			courseHours[c.Title] = c.Hours
		}
	}

	reduced := domain.Catalog{Tracks: make([]domain.Track, 0, len(cat.Tracks))}
	remaining := make(map[domain.TrackKey]int, len(cat.Tracks))

	for _, t := range cat.Tracks {
		kept := make([]domain.Course, 0, len(t.Courses))
		hours := 0
		for _, c := range t.Courses {
			if _, done := completed[c.Title]; done {
				continue
			}
			c.Hours = courseHours[c.Title]
			kept = append(kept, c)
			hours += c.Hours
		}
		if hours == 0 {
			continue
		}
		reduced.Tracks = append(reduced.Tracks, domain.Track{Key: t.Key, Courses: kept})
		remaining[t.Key] = hours
	}
	return reduced, remaining
}
