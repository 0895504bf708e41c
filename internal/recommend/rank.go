package recommend

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

// Row is one ranked recommendation.
type Row struct {
	Course             string
	CourseLength       int             // the course's own hours
	TrackDuplication   int             // tracks containing the course, full-catalog scope
	ShortestTrack      domain.TrackKey // best track resolved for the course
	TrackTimeRemaining int             // remaining hours of that track
	Description        string
}

// Rank produces the ordered recommendation table for one category: the
// courses of the k closest-to-completion tracks, ordered so that courses
// finishing a track soonest come first, shorter courses break ties, then
// courses counting toward more tracks, then the track key. Unknown
// categories and non-positive k or rowLimit yield an empty table with no
// error. The table is freshly computed on every call.
func (s *Snapshot) Rank(category string, k, rowLimit int) ([]Row, error) {
	if k <= 0 || rowLimit <= 0 {
		return nil, nil
	}

	agg := s.AggregateCourses(category, k)
	rows := make([]Row, 0, len(agg))
	seen := make(map[string]struct{}, len(agg))

	for _, ch := range agg {
		if _, dup := seen[ch.Title]; dup {
			continue // first occurrence in aggregation order wins
		}
		seen[ch.Title] = struct{}{}

		best, err := s.ResolveBestTrack(ch.Title)
		if err != nil {
			return nil, fmt.Errorf("rank %q: %w", category, err)
		}
		// A tie flattens to First, the lexicographically smaller tied track
		// key; the full tie stays visible through ResolveBestTrack.
		rep := best.First

		count := s.Indexes.CourseCount[ch.Title]
		if count == 0 {
			log.Warn().Str("course", ch.Title).Msg("course missing from occurrence index")
		}

		rows = append(rows, Row{
			Course:             ch.Title,
			CourseLength:       ch.Hours,
			TrackDuplication:   count,
			ShortestTrack:      rep.Track,
			TrackTimeRemaining: rep.Remaining,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return lessRow(rows[i], rows[j]) })

	for i := range rows {
		rows[i].Description = s.Indexes.CourseDescription[rows[i].Course]
	}

	if len(rows) > rowLimit {
		rows = rows[:rowLimit]
	}
	return rows, nil
}

// lessRow is the ranking comparator: best-track remaining hours ascending,
// course length ascending, track duplication DESCENDING, track key ascending.
// Rows equal on all four keys keep aggregation order via the stable sort.
func lessRow(a, b Row) bool {
	if a.TrackTimeRemaining != b.TrackTimeRemaining {
		return a.TrackTimeRemaining < b.TrackTimeRemaining
	}
	if a.CourseLength != b.CourseLength {
		return a.CourseLength < b.CourseLength
	}
	if a.TrackDuplication != b.TrackDuplication {
		return a.TrackDuplication > b.TrackDuplication
	}
	return a.ShortestTrack < b.ShortestTrack
}
