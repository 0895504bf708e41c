package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/faisaljina/dc-recommender/internal/recommend"
)

// Report is one category's ranked table, ready for export.
type Report struct {
	Category string
	Rows     []recommend.Row
}

// Keep header order EXACT; downstream sheets reference columns by name.
var rankHeader = []string{
	"category",
	"course",
	"course_length",
	"track_duplication",
	"shortest_track",
	"track_time_remaining",
	"description",
}

// WriteRankCSV writes every category's ranked rows into a single CSV.
func WriteRankCSV(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)
	// match typical spreadsheet templates
	cw.UseCRLF = true

	if err := cw.Write(rankHeader); err != nil {
		return err
	}

	for _, rep := range reports {
		for _, row := range rep.Rows {
			record := []string{
				rep.Category,
				row.Course,
				strconv.Itoa(row.CourseLength),
				strconv.Itoa(row.TrackDuplication),
				string(row.ShortestTrack),
				strconv.Itoa(row.TrackTimeRemaining),
				row.Description,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
