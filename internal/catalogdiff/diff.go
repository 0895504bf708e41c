// Package catalogdiff compares two catalog snapshots so a sync run can log
// what changed and skip persistence when nothing did.
package catalogdiff

import (
	"strings"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

type Result struct {
	AddedTracks   []domain.TrackKey
	RemovedTracks []domain.TrackKey
	Changed       []TrackChange
}

// TrackChange lists course-level changes within a track present in both
// catalogs.
type TrackChange struct {
	Track           domain.TrackKey
	AddedCourses    []string
	RemovedCourses  []string
	ModifiedCourses []string
}

func (r Result) Empty() bool {
	return len(r.AddedTracks) == 0 && len(r.RemovedTracks) == 0 && len(r.Changed) == 0
}

// Diff compares the stored catalog with a freshly fetched one. Tracks are
// matched by key, courses by title. Output order follows catalog order, so
// the same pair of catalogs always diffs the same way.
func Diff(old, fresh domain.Catalog) Result {
	var res Result

	oldByKey := make(map[domain.TrackKey]*domain.Track, len(old.Tracks))
	for i := range old.Tracks {
		oldByKey[old.Tracks[i].Key] = &old.Tracks[i]
	}
	newByKey := make(map[domain.TrackKey]*domain.Track, len(fresh.Tracks))
	for i := range fresh.Tracks {
		newByKey[fresh.Tracks[i].Key] = &fresh.Tracks[i]
	}

	for i := range fresh.Tracks {
		nt := &fresh.Tracks[i]
		ot, ok := oldByKey[nt.Key]
		if !ok {
			res.AddedTracks = append(res.AddedTracks, nt.Key)
			continue
		}
		if tc := diffTrack(ot, nt); !tc.empty() {
			res.Changed = append(res.Changed, tc)
		}
	}

	for i := range old.Tracks {
		if _, ok := newByKey[old.Tracks[i].Key]; !ok {
			res.RemovedTracks = append(res.RemovedTracks, old.Tracks[i].Key)
		}
	}

	return res
}

func (tc TrackChange) empty() bool {
	return len(tc.AddedCourses) == 0 && len(tc.RemovedCourses) == 0 && len(tc.ModifiedCourses) == 0
}

func diffTrack(old, fresh *domain.Track) TrackChange {
	tc := TrackChange{Track: fresh.Key}

	oldByTitle := make(map[string]domain.Course, len(old.Courses))
	for _, c := range old.Courses {
		oldByTitle[c.Title] = c
	}
	newTitles := make(map[string]bool, len(fresh.Courses))

	for _, nc := range fresh.Courses {
		newTitles[nc.Title] = true
		oc, ok := oldByTitle[nc.Title]
		if !ok {
			tc.AddedCourses = append(tc.AddedCourses, nc.Title)
			continue
		}
		if courseChanged(oc, nc) {
			tc.ModifiedCourses = append(tc.ModifiedCourses, nc.Title)
		}
	}

	for _, oc := range old.Courses {
		if !newTitles[oc.Title] {
			tc.RemovedCourses = append(tc.RemovedCourses, oc.Title)
		}
	}

	return tc
}

func courseChanged(old, fresh domain.Course) bool {
	if old.Hours != fresh.Hours {
		return true
	}
	return normDesc(old.Description) != normDesc(fresh.Description)
}

// normDesc collapses whitespace so formatting churn in the API does not
// count as a content change.
func normDesc(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
