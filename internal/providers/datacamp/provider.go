// Package datacamp fetches the DataCamp track catalog and maps it into the
// domain model.
package datacamp

import (
	"context"
	"strings"

	"github.com/faisaljina/dc-recommender/internal/domain"
)

// Provider adapts the DataCamp client into the providers.CatalogProvider
// interface.
type Provider struct {
	C        *Client
	PageSize int
	MaxPages int // <=0 means all
}

func (p Provider) Name() string { return "datacamp" }

func (p Provider) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	if p.PageSize <= 0 {
		p.PageSize = 50
	}

	tracks, err := p.C.ListTracks(ctx, p.PageSize, p.MaxPages)
	if err != nil {
		return domain.Catalog{}, err
	}

	var cat domain.Catalog
	for _, t := range tracks {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		key := domain.MakeTrackKey(name, t.Category)

		for _, c := range t.Courses {
			title := strings.TrimSpace(c.Title)
			if title == "" {
				continue
			}
			cat.Upsert(key, domain.Course{
				Title:       title,
				Description: firstNonEmpty(c.Description, c.Summary),
				Hours:       hoursFromMinutes(int(c.Minutes)),
			})
		}
	}
	return cat, nil
}

// hoursFromMinutes rounds to the nearest whole hour. Anything shorter than
// half an hour still counts as one so the course keeps weight in the
// remaining-time sums.
func hoursFromMinutes(min int) int {
	if min <= 0 {
		return 0
	}
	h := (min + 30) / 60
	if h == 0 {
		h = 1
	}
	return h
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
