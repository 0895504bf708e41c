package store

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andybalholm/brotli"
	json "github.com/goccy/go-json"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

// snapshotFile is the on-disk layout of the compressed catalog snapshot.
// The domain model stays serialization-free; mapping lives here.
type snapshotFile struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Tracks    []snapshotTrack `json:"tracks"`
}

type snapshotTrack struct {
	Key     string           `json:"key"`
	Courses []snapshotCourse `json:"courses"`
}

type snapshotCourse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Hours       int    `json:"hours"`
}

// SaveSnapshot writes the catalog as brotli-compressed JSON, a portable
// fallback for machines without the SQLite cache.
func SaveSnapshot(path string, cat domain.Catalog, fetchedAt time.Time) error {
	sf := snapshotFile{
		FetchedAt: fetchedAt.UTC(),
		Tracks:    make([]snapshotTrack, 0, len(cat.Tracks)),
	}
	for _, t := range cat.Tracks {
		st := snapshotTrack{Key: string(t.Key), Courses: make([]snapshotCourse, 0, len(t.Courses))}
		for _, c := range t.Courses {
			st.Courses = append(st.Courses, snapshotCourse{
				Title:       c.Title,
				Description: c.Description,
				Hours:       c.Hours,
			})
		}
		sf.Tracks = append(sf.Tracks, st)
	}

	raw, err := json.Marshal(sf)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %q: %w", path, err)
	}

	bw := brotli.NewWriterLevel(f, brotli.DefaultCompression)
	if _, err := bw.Write(raw); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (domain.Catalog, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("open snapshot %q: %w", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("read snapshot %q: %w", path, err)
	}

	var sf snapshotFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return domain.Catalog{}, time.Time{}, fmt.Errorf("decode snapshot %q: %w", path, err)
	}

	var cat domain.Catalog
	for _, st := range sf.Tracks {
		t := domain.Track{Key: domain.TrackKey(st.Key)}
		for _, sc := range st.Courses {
			t.Courses = append(t.Courses, domain.Course{
				Title:       sc.Title,
				Description: sc.Description,
				Hours:       sc.Hours,
			})
		}
		cat.Tracks = append(cat.Tracks, t)
	}
	return cat, sf.FetchedAt, nil
}
