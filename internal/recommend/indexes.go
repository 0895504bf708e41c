package recommend

import (
	"github.com/faisaljina/dc-recommender/internal/domain"
)

// Indexes are the lookup structures derived from one full catalog. They are
// built once per snapshot and never mutated after; counts and descriptions
// keep full-catalog scope even after progress filtering reduces the working
// view.
type Indexes struct {
	// TrackCategory maps each track key to its parsed category.
	TrackCategory map[domain.TrackKey]string

	// CourseCount maps each course title to the number of distinct tracks
	// containing it, strictly positive for every course in the catalog.
	CourseCount map[string]int

	// CourseTracks maps each course title to the tracks containing it, in
	// catalog order.
	CourseTracks map[string][]domain.TrackKey

	// CourseDescription maps each course title to its description, last
	// writer in catalog order when tracks disagree. Hours settle the same
	// way when ApplyProgress reduces the catalog.
	CourseDescription map[string]string
}

// BuildIndexes derives fresh lookup maps from the catalog. Deterministic for
// a given catalog order, no side effects.
func BuildIndexes(cat domain.Catalog) Indexes {
	ix := Indexes{
		TrackCategory:     make(map[domain.TrackKey]string, len(cat.Tracks)),
		CourseCount:       make(map[string]int),
		CourseTracks:      make(map[string][]domain.TrackKey),
		CourseDescription: make(map[string]string),
	}
	for _, t := range cat.Tracks {
		ix.TrackCategory[t.Key] = t.Key.Category()
		for _, c := range t.Courses {
			if !containsKey(ix.CourseTracks[c.Title], t.Key) {
				ix.CourseTracks[c.Title] = append(ix.CourseTracks[c.Title], t.Key)
				ix.CourseCount[c.Title]++
			}
			ix.CourseDescription[c.Title] = c.Description
		}
	}
	return ix
}

func containsKey(keys []domain.TrackKey, key domain.TrackKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
