package recommend

import (
	"sort"
	"strings"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

// TrackRemaining pairs a track with its remaining hours in the snapshot.
type TrackRemaining struct {
	Track     domain.TrackKey
	Remaining int
}

// CourseHours pairs a course title with the course's own duration.
type CourseHours struct {
	Title string
	Hours int
}

// SelectTracks returns up to k tracks whose category equals or contains the
// given string, ascending by remaining hours. Ties among equal hours keep
// reduced-catalog order via the stable sort. No qualifying tracks or k <= 0
// yield an empty result, not an error.
func (s *Snapshot) SelectTracks(category string, k int) []TrackRemaining {
	if k <= 0 {
		return nil
	}

	matched := make([]TrackRemaining, 0, k)
	for _, t := range s.Reduced.Tracks {
		if !strings.Contains(s.Indexes.TrackCategory[t.Key], category) {
			continue
		}
		matched = append(matched, TrackRemaining{Track: t.Key, Remaining: s.Remaining[t.Key]})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Remaining < matched[j].Remaining
	})

	if len(matched) > k {
		matched = matched[:k]
	}
	return matched
}

// AggregateCourses gathers the (course, hours) pairs of the selected tracks
// in selection order, concatenated WITHOUT de-duplication: a course shared by
// two selected tracks appears twice here, and the ranker keeps the first.
// Hours is the course's own attribute, not a per-track figure.
func (s *Snapshot) AggregateCourses(category string, k int) []CourseHours {
	selected := s.SelectTracks(category, k)
	agg := make([]CourseHours, 0, len(selected)*4)
	for _, sel := range selected {
		t, ok := s.Reduced.Track(sel.Track)
		if !ok {
			continue // selected from Reduced, always present
		}
		for _, c := range t.Courses {
			agg = append(agg, CourseHours{Title: c.Title, Hours: c.Hours})
		}
	}
	return agg
}
