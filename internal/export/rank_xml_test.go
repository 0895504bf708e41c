package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteRankXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.xml")

	if err := WriteRankXML(path, sampleReports()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read XML file: %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, xml.Header) {
		t.Error("Expected XML declaration header")
	}
	if !strings.Contains(text, `<category name="Python">`) {
		t.Error("Expected Python category element")
	}
	if !strings.Contains(text, `<course rank="1">`) {
		t.Error("Expected rank attribute on first course")
	}
	if !strings.Contains(text, `<course rank="2">`) {
		t.Error("Expected rank attribute on second course")
	}
	if !strings.Contains(text, "<shortest_track>Image Processing | Python</shortest_track>") {
		t.Error("Expected shortest_track element")
	}

	// Round-trip to verify structure, not just text.
	var got xmlRankList
	if err := xml.Unmarshal(content, &got); err != nil {
		t.Fatalf("Expected generated XML to parse, got %v", err)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(got.Categories))
	}
	if got.Categories[0].Name != "Python" || len(got.Categories[0].Courses) != 2 {
		t.Errorf("Expected Python with 2 courses, got %+v", got.Categories[0])
	}
	if got.Categories[1].Courses[0].TrackTimeRemaining != 10 {
		t.Errorf("Expected R course with 10 hours remaining, got %+v", got.Categories[1].Courses[0])
	}
}

func TestWriteRankXMLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xml")

	if err := WriteRankXML(path, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read XML file: %v", err)
	}
	if !strings.Contains(string(content), "recommendation_list") {
		t.Errorf("Expected root element, got %s", content)
	}
}

func TestWriteRankXMLBadPath(t *testing.T) {
	err := WriteRankXML(filepath.Join(t.TempDir(), "missing", "recommendations.xml"), sampleReports())
	if err == nil {
		t.Error("Expected error for unwritable path, got nil")
	}
}
