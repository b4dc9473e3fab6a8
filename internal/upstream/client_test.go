package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/parks-mcp/internal/common"
)

func testLogger() *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:   "error",
		Outputs: []string{"console"},
	})
}

// fastRetry keeps the full retry schedule in the low milliseconds.
func fastRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func newTestClient(baseURL string, retry RetryPolicy) *Client {
	return New("test", Config{BaseURL: baseURL, Timeout: 2 * time.Second, Retry: retry}, testLogger())
}

func asUpstreamError(t *testing.T, err error) *Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return apiErr
}

func TestGet_Success(t *testing.T) {
	var gotQuery url.Values
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":"1"}`))
	}))
	defer server.Close()

	client := New("test", Config{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		Headers: map[string]string{"X-Api-Key": "test-key"},
	}, testLogger())

	query := url.Values{}
	query.Set("stateCode", "CA")
	query.Set("limit", "10")

	body, err := client.Get(context.Background(), "/parks", query)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !strings.Contains(string(body), `"total":"1"`) {
		t.Errorf("unexpected body: %s", body)
	}
	if gotQuery.Get("stateCode") != "CA" || gotQuery.Get("limit") != "10" {
		t.Errorf("query parameters not forwarded: %v", gotQuery)
	}
	if gotHeader.Get("X-Api-Key") != "test-key" {
		t.Error("configured header not injected")
	}
	if gotHeader.Get("Accept") != "application/json" {
		t.Error("Accept header not set")
	}
}

func TestGet_RetriesTransientFailuresThenSucceeds(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, fastRetry())

	body, err := client.Get(context.Background(), "/parks", nil)
	if err != nil {
		t.Fatalf("expected success after absorbing two retries, got %v", err)
	}
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestGet_RateLimitedExhaustsBudgetWithRetryAfter(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, fastRetry())

	_, err := client.Get(context.Background(), "/parks", nil)
	apiErr := asUpstreamError(t, err)
	if apiErr.Kind != KindRateLimited {
		t.Errorf("expected kind %q, got %q", KindRateLimited, apiErr.Kind)
	}
	if apiErr.RetryAfter != 5 {
		t.Errorf("expected retry-after 5, got %d", apiErr.RetryAfter)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
	if requests != 3 {
		t.Errorf("retry bound exceeded: %d requests", requests)
	}
}

func TestGet_ClientErrorsNotRetried(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusUnprocessableEntity, KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL, fastRetry())

			_, err := client.Get(context.Background(), "/parks", nil)
			apiErr := asUpstreamError(t, err)
			if apiErr.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, apiErr.Kind)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if requests != 1 {
				t.Errorf("client error consumed retry budget: %d requests", requests)
			}
		})
	}
}

func TestGet_ServerErrorExhaustsRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, fastRetry())

	_, err := client.Get(context.Background(), "/parks", nil)
	apiErr := asUpstreamError(t, err)
	if apiErr.Kind != KindUpstreamUnavailable {
		t.Errorf("expected kind %q, got %q", KindUpstreamUnavailable, apiErr.Kind)
	}
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestGet_TimeoutClassifiedUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := New("test", Config{
		BaseURL: server.URL,
		Timeout: 20 * time.Millisecond,
	}, testLogger())

	_, err := client.Get(context.Background(), "/parks", nil)
	apiErr := asUpstreamError(t, err)
	if apiErr.Kind != KindUpstreamUnavailable {
		t.Errorf("expected kind %q, got %q", KindUpstreamUnavailable, apiErr.Kind)
	}
}

func TestGet_CancellationStopsRetrySchedule(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Get(ctx, "/parks", nil)
	apiErr := asUpstreamError(t, err)
	if apiErr.Kind != KindNetwork {
		t.Errorf("expected kind %q, got %q", KindNetwork, apiErr.Kind)
	}
	if requests != 1 {
		t.Errorf("expected cancellation after first attempt, got %d requests", requests)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("cancellation did not interrupt backoff, took %v", elapsed)
	}
}

func TestGet_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"nested error object", http.StatusBadRequest, `{"error":{"code":"BAD_QUERY","message":"limit must be between 1 and 50"}}`, "limit must be between 1 and 50"},
		{"flat error string", http.StatusNotFound, `{"error":"no such park"}`, "no such park"},
		{"message field", http.StatusBadRequest, `{"message":"malformed request"}`, "malformed request"},
		{"unparseable body", http.StatusBadRequest, `<html>bad gateway</html>`, "upstream returned 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, RetryPolicy{})

			_, err := client.Get(context.Background(), "/parks", nil)
			apiErr := asUpstreamError(t, err)
			if !strings.Contains(apiErr.Message, tt.message) {
				t.Errorf("expected message containing %q, got %q", tt.message, apiErr.Message)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	typed := &Error{Kind: KindNotFound, StatusCode: 404, Message: "gone"}
	if got := Classify(typed); got != typed {
		t.Errorf("expected typed error passed through, got %+v", got)
	}
	got := Classify(errors.New("boom"))
	if got.Kind != KindUnknown {
		t.Errorf("expected kind %q, got %q", KindUnknown, got.Kind)
	}
	if got.Message != "boom" {
		t.Errorf("expected original message, got %q", got.Message)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	header := http.Header{}
	if got := retryAfterSeconds(header); got != 0 {
		t.Errorf("expected 0 for missing header, got %d", got)
	}
	header.Set("Retry-After", "12")
	if got := retryAfterSeconds(header); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
	header.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	if got := retryAfterSeconds(header); got != 0 {
		t.Errorf("expected 0 for http-date form, got %d", got)
	}
}
