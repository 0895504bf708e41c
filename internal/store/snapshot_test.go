package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json.br")
	want := storeTestCatalog()
	fetchedAt := time.Date(2026, 8, 21, 10, 30, 0, 0, time.UTC)

	if err := SaveSnapshot(path, want, fetchedAt); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	got, gotAt, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected catalog %+v, got %+v", want, got)
	}
	if !gotAt.Equal(fetchedAt) {
		t.Errorf("Expected fetch time %v, got %v", fetchedAt, gotAt)
	}
}

func TestSnapshotIsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json.br")

	var cat domain.Catalog
	cat.Upsert(domain.MakeTrackKey("Big Track", "Python"), domain.Course{
		Title:       "Wordy Course",
		Description: strings.Repeat("pandas dataframes ", 500),
		Hours:       4,
	})
	if err := SaveSnapshot(path, cat, time.Now()); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected snapshot file to exist, got %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("Expected non-empty snapshot file")
	}
	// The description alone is ~9KB of repeated text; anything near that
	// size means the file was written uncompressed.
	if len(raw) > 1000 {
		t.Errorf("Expected compressed snapshot under 1KB, got %d bytes", len(raw))
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json.br"))
	if err == nil {
		t.Fatal("Expected error for missing snapshot, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadSnapshotGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.json.br")
	if err := os.WriteFile(path, []byte("not brotli at all"), 0o644); err != nil {
		t.Fatalf("Expected write to succeed, got %v", err)
	}

	if _, _, err := LoadSnapshot(path); err == nil {
		t.Error("Expected error for corrupt snapshot, got nil")
	}
}
