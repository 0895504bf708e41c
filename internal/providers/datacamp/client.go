package datacamp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/faisaljina/dc-recommender/internal/httpx"
)

// pageDelay separa las páginas para no gatillar 429 en el API.
const pageDelay = 200 * time.Millisecond

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Retry   httpx.RetryPolicy

	// PageDelay pauses between page fetches. Zero disables the pause.
	PageDelay time.Duration
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute // por-request
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    apiKey,
		HTTP:      &http.Client{Timeout: timeout},
		Retry:     httpx.DefaultRetryPolicy(),
		PageDelay: pageDelay,
	}
}

// ListTracks walks the paged tracks endpoint until the API stops returning a
// next link, or until maxPages pages have been fetched (maxPages <= 0 means
// all). On error it returns the tracks collected so far along with the error.
func (c *Client) ListTracks(ctx context.Context, pageSize, maxPages int) ([]Track, error) {
	u, err := url.Parse(c.BaseURL + "/tracks")
	if err != nil {
		return nil, fmt.Errorf("datacamp: invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	next := u.String()

	var all []Track
	for page := 1; next != ""; page++ {
		if maxPages > 0 && page > maxPages {
			break
		}

		resp, err := c.fetchPage(ctx, next)
		if err != nil {
			// devolvemos lo juntado hasta acá, para no perder el run
			return all, fmt.Errorf("datacamp: list tracks failed on page %d: %w", page, err)
		}

		log.Debug().
			Int("page", page).
			Int("tracks", len(resp.Tracks)).
			Int("total", resp.Count).
			Msg("fetched catalog page")

		all = append(all, resp.Tracks...)
		next = resp.Next

		if next != "" && c.PageDelay > 0 {
			select {
			case <-time.After(c.PageDelay):
			case <-ctx.Done():
				return all, ctx.Err()
			}
		}
	}

	return all, nil
}

// fetchPage fetches one page. Status and transport retries live in httpx;
// this layer only re-fetches when a proxy serves an HTML error page with a
// 200 status.
func (c *Client) fetchPage(ctx context.Context, pageURL string) (*listTracksResponse, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("datacamp: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}
		return req, nil
	}

	attempts := c.Retry.Attempts
	if attempts <= 0 {
		attempts = httpx.DefaultRetryPolicy().Attempts
	}

	for attempt := 1; ; attempt++ {
		_, body, err := httpx.Do(ctx, c.HTTP, build, c.Retry)
		if err != nil {
			return nil, err
		}

		if looksLikeHTML(body) {
			if attempt >= attempts {
				return nil, fmt.Errorf("datacamp: page %s keeps returning HTML instead of JSON", pageURL)
			}
			log.Warn().Str("url", pageURL).Int("attempt", attempt).Msg("got HTML with status 200, refetching page")
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}

		var out listTracksResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("datacamp: decode page: %w", err)
		}
		return &out, nil
	}
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	return strings.HasPrefix(s, "<html") || strings.HasPrefix(s, "<!doc")
}
