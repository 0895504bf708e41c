// Package httpx contiene los helpers HTTP compartidos por los clientes de
// API: reintentos con backoff exponencial + jitter, manejo de Retry-After y
// decodificación JSON.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// HTTPError carries status and body for non-2xx responses so callers can
// decide how to react.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 500))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryPolicy controls Do's retry behavior. 5xx responses are always
// retryable; RetryStatuses adds more (429, 408, ...).
type RetryPolicy struct {
	Attempts      int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	RetryStatuses map[int]bool
}

// DefaultRetryPolicy is tuned for a paged catalog API.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  5,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  20 * time.Second,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests: true, // 429
			http.StatusRequestTimeout:  true, // 408
		},
	}
}

// Do executes a request built by build, retrying transient failures. The
// body is always read in full (also on errors) so http.Transport can reuse
// the underlying connection.
func Do(
	ctx context.Context,
	client *http.Client,
	build func(context.Context) (*http.Request, error),
	policy RetryPolicy,
) (*http.Response, []byte, error) {
	if policy.Attempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 20 * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !retryableNetErr(err) || attempt == policy.Attempts {
				return nil, nil, err
			}
			lastErr = err
			log.Debug().Err(err).Int("attempt", attempt).Str("url", req.URL.String()).Msg("transport error, retrying")
			if err := backoff(ctx, attempt, policy, 0); err != nil {
				return nil, nil, err
			}
			continue
		}

		body, readErr := readAndClose(resp.Body)
		if readErr != nil {
			if !retryableNetErr(readErr) || attempt == policy.Attempts {
				return resp, body, readErr
			}
			lastErr = readErr
			log.Debug().Err(readErr).Int("attempt", attempt).Msg("body read error, retrying")
			if err := backoff(ctx, attempt, policy, 0); err != nil {
				return nil, nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, body, nil
		}

		herr := &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       body,
		}
		if !retryableStatus(resp.StatusCode, policy) || attempt == policy.Attempts {
			return resp, body, herr
		}
		lastErr = herr
		log.Debug().Int("status", resp.StatusCode).Int("attempt", attempt).Str("url", req.URL.String()).Msg("retryable status")
		// respeta Retry-After si el servidor lo envía
		if err := backoff(ctx, attempt, policy, RetryAfter(resp)); err != nil {
			return nil, nil, err
		}
	}

	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, errors.New("httpx: request failed")
}

// DoJSON runs Do and unmarshals the body into out (skipped when out is nil).
func DoJSON(
	ctx context.Context,
	client *http.Client,
	build func(context.Context) (*http.Request, error),
	out any,
	policy RetryPolicy,
) error {
	_, body, err := Do(ctx, client, build, policy)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(body, 500))
	}
	return nil
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func retryableStatus(code int, policy RetryPolicy) bool {
	if policy.RetryStatuses[code] {
		return true
	}
	return code >= 500 && code <= 599
}

// backoff sleeps exponentially with jitter, preferring an explicit server
// hint when present, and aborts early on ctx cancellation.
func backoff(ctx context.Context, attempt int, policy RetryPolicy, hint time.Duration) error {
	sleep := hint
	if sleep <= 0 {
		sleep = policy.BaseDelay * time.Duration(1<<(attempt-1))
		if sleep > policy.MaxDelay {
			sleep = policy.MaxDelay
		}
		sleep += time.Duration(rand.Intn(300)) * time.Millisecond // jitter
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	// errores transitorios comunes de I/O
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// RetryAfter parses the Retry-After header (seconds or HTTP date). Returns 0
// when the header is missing or invalid.
func RetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}
