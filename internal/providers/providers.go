package providers

import (
	"context"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

// CatalogProvider fetches the complete track catalog from a remote source.
type CatalogProvider interface {
	Name() string
	FetchCatalog(ctx context.Context) (domain.Catalog, error)
}
