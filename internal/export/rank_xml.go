package export

import (
	"encoding/xml"
	"fmt"
	"os"
)

/*
Rank XML layout:

<recommendation_list>
  <category name="Python">
    <course rank="1">
      <title>Introduction to Python Programming</title>
      <course_length>4</course_length>
      <track_duplication>1</track_duplication>
      <shortest_track>Image Processing | Python</shortest_track>
      <track_time_remaining>4</track_time_remaining>
      <description>Pixels and filters</description>
    </course>
  </category>
</recommendation_list>
*/

type xmlRankList struct {
	XMLName    xml.Name      `xml:"recommendation_list"`
	Categories []xmlCategory `xml:"category"`
}

type xmlCategory struct {
	Name    string      `xml:"name,attr"`
	Courses []xmlCourse `xml:"course"`
}

type xmlCourse struct {
	Rank               int    `xml:"rank,attr"`
	Title              string `xml:"title"`
	CourseLength       int    `xml:"course_length"`
	TrackDuplication   int    `xml:"track_duplication"`
	ShortestTrack      string `xml:"shortest_track"`
	TrackTimeRemaining int    `xml:"track_time_remaining"`
	Description        string `xml:"description,omitempty"`
}

// WriteRankXML writes every category's ranked rows as a single XML file.
func WriteRankXML(outPath string, reports []Report) error {
	out := xmlRankList{Categories: make([]xmlCategory, 0, len(reports))}

	for _, rep := range reports {
		cat := xmlCategory{Name: rep.Category, Courses: make([]xmlCourse, 0, len(rep.Rows))}
		for i, row := range rep.Rows {
			cat.Courses = append(cat.Courses, xmlCourse{
				Rank:               i + 1,
				Title:              row.Course,
				CourseLength:       row.CourseLength,
				TrackDuplication:   row.TrackDuplication,
				ShortestTrack:      string(row.ShortestTrack),
				TrackTimeRemaining: row.TrackTimeRemaining,
				Description:        row.Description,
			})
		}
		out.Categories = append(out.Categories, cat)
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}

	if err := os.WriteFile(outPath, append([]byte(xml.Header), b...), 0o644); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}

	return nil
}
