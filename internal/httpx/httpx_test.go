package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestSnippet(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text ..."},
	}

	for _, tc := range testCases {
		result := snippet([]byte(tc.input), tc.max)
		if result != tc.expected {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.input, tc.max, result, tc.expected)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "https://example.com",
		StatusCode: 404,
		Body:       []byte("Not Found"),
	}

	expected := "http error: GET https://example.com status=404 body=Not Found"
	if err.Error() != expected {
		t.Errorf("HTTPError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	if policy.Attempts != 5 {
		t.Errorf("Expected Attempts to be 5, got %d", policy.Attempts)
	}

	if policy.BaseDelay != 500*time.Millisecond {
		t.Errorf("Expected BaseDelay to be 500ms, got %v", policy.BaseDelay)
	}

	if policy.MaxDelay != 20*time.Second {
		t.Errorf("Expected MaxDelay to be 20s, got %v", policy.MaxDelay)
	}

	for _, status := range []int{429, 408} {
		if !policy.RetryStatuses[status] {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}
}

func TestRetryableStatus(t *testing.T) {
	policy := DefaultRetryPolicy()

	// 5xx is always retryable
	for i := 500; i <= 599; i++ {
		if !retryableStatus(i, policy) {
			t.Errorf("Expected status %d to be retryable", i)
		}
	}

	for status := range policy.RetryStatuses {
		if !retryableStatus(status, policy) {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}

	nonRetryableStatuses := []int{400, 401, 403, 404, 422}
	for _, status := range nonRetryableStatuses {
		if retryableStatus(status, policy) {
			t.Errorf("Expected status %d to not be retryable", status)
		}
	}

	// 5xx stays retryable even with an empty extra set
	if !retryableStatus(503, RetryPolicy{}) {
		t.Error("Expected status 503 to be retryable without extra statuses")
	}
}

func TestRetryableNetErr(t *testing.T) {
	if retryableNetErr(context.Canceled) {
		t.Error("Expected context.Canceled to not be retryable")
	}

	if !retryableNetErr(context.DeadlineExceeded) {
		t.Error("Expected context.DeadlineExceeded to be retryable")
	}

	timeoutErr := &timeoutError{}
	if !retryableNetErr(timeoutErr) {
		t.Error("Expected timeout error to be retryable")
	}

	connectionResetErr := errors.New("connection reset by peer")
	if !retryableNetErr(connectionResetErr) {
		t.Error("Expected 'connection reset' error to be retryable")
	}

	brokenPipeErr := errors.New("write: broken pipe")
	if !retryableNetErr(brokenPipeErr) {
		t.Error("Expected 'broken pipe' error to be retryable")
	}

	eofErr := errors.New("unexpected EOF")
	if !retryableNetErr(eofErr) {
		t.Error("Expected 'EOF' error to be retryable")
	}

	otherErr := errors.New("some other error")
	if retryableNetErr(otherErr) {
		t.Error("Expected 'some other error' to not be retryable")
	}
}

const retryAfterHeader = "Retry-After"

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{},
	}
	resp.Header.Set(retryAfterHeader, "30")

	if got := RetryAfter(resp); got != 30*time.Second {
		t.Errorf("Expected 30s, got %v", got)
	}

	// A date in the past yields 0.
	past := time.Now().Add(-60 * time.Second)
	resp.Header.Set(retryAfterHeader, past.Format(time.RFC1123))
	if got := RetryAfter(resp); got != 0 {
		t.Errorf("Expected 0 for past date, got %v", got)
	}

	resp.Header.Set(retryAfterHeader, "invalid")
	if got := RetryAfter(resp); got != 0 {
		t.Errorf("Expected 0 for invalid format, got %v", got)
	}

	resp.Header.Del(retryAfterHeader)
	if got := RetryAfter(resp); got != 0 {
		t.Errorf("Expected 0 for empty header, got %v", got)
	}
}

// Mock implementation of net.Error for testing
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
