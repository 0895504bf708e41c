// Package progress derives the learner's completed-course set from local
// completion records and explicit title lists.
package progress

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Words that decorate record file names without identifying the course.
var recordNoise = map[string]bool{
	"certificate": true,
	"cert":        true,
	"completed":   true,
	"completion":  true,
	"statement":   true,
}

// LoadRecords lists completion-record file names under dir, stripped down to
// the course name they stand for. Subdirectories and hidden files are
// ignored.
func LoadRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read records dir %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if name := cleanRecordName(e.Name()); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// cleanRecordName turns a record file name into the course name it stands
// for: extension off, separators to spaces, noise words trimmed from both
// ends.
func cleanRecordName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	fields := strings.Fields(name)
	for len(fields) > 0 && recordNoise[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	for len(fields) > 0 && recordNoise[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// LoadCompletedFile reads explicit course titles, one per line. Blank lines
// and lines starting with # are skipped.
func LoadCompletedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open completed file %q: %w", path, err)
	}
	defer f.Close()

	var titles []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read completed file %q: %w", path, err)
	}
	return titles, nil
}
