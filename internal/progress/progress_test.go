package progress

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/faisaljina/dc-recommender/internal/logging"
)

func TestCleanRecordName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Certificate - Joining Data with pandas.pdf", "Joining Data with pandas"},
		{"intro_to_sql_certificate.png", "intro to sql"},
		{"completed certificate - Data Viz.pdf", "Data Viz"},
		{"Joining Data with pandas.pdf", "Joining Data with pandas"},
		{"certificate.pdf", ""},
		{"statement_of_accomplishment_Intro_to_R.pdf", "of accomplishment Intro to R"},
	}

	for _, tc := range testCases {
		result := cleanRecordName(tc.input)
		if result != tc.expected {
			t.Errorf("cleanRecordName(%q) = %q; expected %q", tc.input, result, tc.expected)
		}
	}
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"Certificate - Joining Data with pandas.pdf",
		"intro_to_sql_certificate.png",
		".hidden.pdf",
		"certificate.pdf",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Expected file write to succeed, got %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatalf("Expected mkdir to succeed, got %v", err)
	}

	records, err := LoadRecords(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"Joining Data with pandas", "intro to sql"}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Expected records %v, got %v", want, records)
	}
}

func TestLoadRecordsMissingDir(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Error("Expected error for missing dir, got nil")
	}
}

func TestLoadCompletedFile(t *testing.T) {
	content := `# manually completed courses
Joining Data with pandas

Intro to SQL
  # indented comment
`
	path := filepath.Join(t.TempDir(), "completed.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Expected file write to succeed, got %v", err)
	}

	titles, err := LoadCompletedFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"Joining Data with pandas", "Intro to SQL"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("Expected titles %v, got %v", want, titles)
	}
}

func TestLoadCompletedFileMissing(t *testing.T) {
	_, err := LoadCompletedFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestDetectCompletedExact(t *testing.T) {
	titles := []string{"Joining Data with pandas", "Introduction to SQL"}

	completed := DetectCompleted([]string{"JOINING data with Pandas!"}, titles, 0.6)

	if len(completed) != 1 {
		t.Fatalf("Expected 1 completed course, got %d", len(completed))
	}
	if _, ok := completed["Joining Data with pandas"]; !ok {
		t.Errorf("Expected 'Joining Data with pandas' in completed set, got %v", completed)
	}
}

func TestDetectCompletedSubstring(t *testing.T) {
	titles := []string{"Joining Data with pandas"}

	completed := DetectCompleted([]string{"Joining Data with pandas course 2026"}, titles, 0.6)

	if _, ok := completed["Joining Data with pandas"]; !ok {
		t.Errorf("Expected substring match, got %v", completed)
	}
}

func TestDetectCompletedSimilarity(t *testing.T) {
	titles := []string{"Joining Data with pandas", "Introduction to SQL"}

	// Not exact, not a substring, three of four tokens shared.
	completed := DetectCompleted([]string{"Data Joining pandas"}, titles, 0.6)

	if _, ok := completed["Joining Data with pandas"]; !ok {
		t.Errorf("Expected similarity match, got %v", completed)
	}
}

func TestDetectCompletedAmbiguousSkipped(t *testing.T) {
	// This case warns on purpose; keep the line attached to the test output.
	prev := log.Logger
	log.Logger = logging.NewTestLogger(t)
	t.Cleanup(func() { log.Logger = prev })

	titles := []string{"Alpha Beta One", "Alpha Beta Two"}

	// Scores 2/3 against both titles; must not guess.
	completed := DetectCompleted([]string{"Beta Alpha"}, titles, 0.6)

	if len(completed) != 0 {
		t.Errorf("Expected ambiguous record to be skipped, got %v", completed)
	}
}

func TestDetectCompletedBelowThreshold(t *testing.T) {
	titles := []string{"Joining Data with pandas"}

	completed := DetectCompleted([]string{"Quantum Mechanics Primer"}, titles, 0.6)

	if len(completed) != 0 {
		t.Errorf("Expected no match below threshold, got %v", completed)
	}
}

func TestDetectCompletedDefaultThreshold(t *testing.T) {
	titles := []string{"Joining Data with pandas"}

	// Threshold <= 0 falls back to DefaultMinSimilarity.
	completed := DetectCompleted([]string{"Data Joining pandas"}, titles, 0)

	if _, ok := completed["Joining Data with pandas"]; !ok {
		t.Errorf("Expected match with default threshold, got %v", completed)
	}
}

func TestDetectCompletedMultipleRecords(t *testing.T) {
	titles := []string{"Joining Data with pandas", "Introduction to SQL", "Machine Learning Basics"}
	records := []string{"Joining Data with pandas", "introduction sql"}

	completed := DetectCompleted(records, titles, 0.6)

	if len(completed) != 2 {
		t.Fatalf("Expected 2 completed courses, got %d: %v", len(completed), completed)
	}
	if _, ok := completed["Joining Data with pandas"]; !ok {
		t.Error("Expected 'Joining Data with pandas' in completed set")
	}
	if _, ok := completed["Introduction to SQL"]; !ok {
		t.Error("Expected 'Introduction to SQL' in completed set")
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Joining Data with pandas", "joining data with pandas"},
		{"  JOINING   data!!", "joining data"},
		{"Café-Con_Leche 3", "café con leche 3"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		result := normalize(tc.input)
		if result != tc.expected {
			t.Errorf("normalize(%q) = %q; expected %q", tc.input, result, tc.expected)
		}
	}
}

func TestJaccard(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected float64
	}{
		{"a b c", "a b c", 1},
		{"a b", "a b c d", 0.5},
		{"a b c", "d e f", 0},
		{"", "a", 0},
	}

	for _, tc := range testCases {
		result := jaccard(tokenSet(tc.a), tokenSet(tc.b))
		if result != tc.expected {
			t.Errorf("jaccard(%q, %q) = %v; expected %v", tc.a, tc.b, result, tc.expected)
		}
	}
}
