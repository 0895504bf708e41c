package providers

import (
	"context"
	"testing"

	"github.com/faisaljina/dc-recommender/internal/domain"
	"github.com/faisaljina/dc-recommender/internal/providers/datacamp"
)

// MockProvider is a mock implementation of the CatalogProvider interface for testing
type MockProvider struct {
	NameFunc         func() string
	FetchCatalogFunc func(ctx context.Context) (domain.Catalog, error)
}

func (m *MockProvider) Name() string {
	return m.NameFunc()
}

func (m *MockProvider) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	return m.FetchCatalogFunc(ctx)
}

// Both the mock and the real provider must satisfy the interface.
var (
	_ CatalogProvider = (*MockProvider)(nil)
	_ CatalogProvider = datacamp.Provider{}
)

func TestProviders(t *testing.T) {
	mockProvider := &MockProvider{
		NameFunc: func() string {
			return "mock-provider"
		},
		FetchCatalogFunc: func(ctx context.Context) (domain.Catalog, error) {
			var cat domain.Catalog
			cat.Upsert(domain.MakeTrackKey("Data Manipulation", "Python"), domain.Course{
				Title:       "Joining Data with pandas",
				Description: "Combine tables with merge and concat",
				Hours:       4,
			})
			return cat, nil
		},
	}

	ctx := context.Background()

	name := mockProvider.Name()
	if name != "mock-provider" {
		t.Errorf("Expected name to be 'mock-provider', got %q", name)
	}

	cat, err := mockProvider.FetchCatalog(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cat.Len() != 1 {
		t.Fatalf("Expected 1 track, got %d", cat.Len())
	}

	track, ok := cat.Track(domain.MakeTrackKey("Data Manipulation", "Python"))
	if !ok {
		t.Fatal("Expected track Data Manipulation | Python to exist")
	}
	if len(track.Courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(track.Courses))
	}
	if track.Courses[0].Title != "Joining Data with pandas" {
		t.Errorf("Expected Title to be 'Joining Data with pandas', got %q", track.Courses[0].Title)
	}
}
