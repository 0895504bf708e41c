package recommend

import (
	"fmt"
	"sort"
)

// BestTrackKind tags the two result shapes of ResolveBestTrack.
type BestTrackKind int

const (
	// BestSingle means one track is strictly closest to completion.
	BestSingle BestTrackKind = iota
	// BestTied means the two closest tracks have exactly equal remaining
	// hours. Both are reported, never more than two however many tie.
	BestTied
)

// BestTrack is the resolver result, a tagged variant: a single best track, or
// a two-way tie. Second is only meaningful when Kind is BestTied.
type BestTrack struct {
	Kind   BestTrackKind
	First  TrackRemaining
	Second TrackRemaining
}

// Tied reports whether the result is a two-way tie.
func (b BestTrack) Tied() bool { return b.Kind == BestTied }

// ResolveBestTrack finds, among the tracks containing the course, the one
// with the least remaining hours in this snapshot. Candidates are ordered by
// remaining hours ascending, ties by track key ascending, so the result does
// not depend on catalog insertion order. A course with no track membership,
// or whose tracks have all been completed, yields ErrNoBestTrack.
func (s *Snapshot) ResolveBestTrack(title string) (BestTrack, error) {
	keys := s.Indexes.CourseTracks[title]
	if len(keys) == 0 {
		return BestTrack{}, fmt.Errorf("resolve best track for %q: %w", title, ErrNoBestTrack)
	}

	candidates := make([]TrackRemaining, 0, len(keys))
	for _, key := range keys {
		rem, ok := s.Remaining[key]
		if !ok {
			continue // track fully completed, no longer a candidate
		}
		candidates = append(candidates, TrackRemaining{Track: key, Remaining: rem})
	}

	if len(candidates) == 0 {
		return BestTrack{}, fmt.Errorf("resolve best track for %q: every containing track is completed: %w", title, ErrNoBestTrack)
	}
	if len(candidates) == 1 {
		return BestTrack{Kind: BestSingle, First: candidates[0]}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Remaining != candidates[j].Remaining {
			return candidates[i].Remaining < candidates[j].Remaining
		}
		return candidates[i].Track < candidates[j].Track
	})

	if candidates[0].Remaining == candidates[1].Remaining {
		return BestTrack{Kind: BestTied, First: candidates[0], Second: candidates[1]}, nil
	}
	return BestTrack{Kind: BestSingle, First: candidates[0]}, nil
}
