// Package upstream implements the shared HTTP engine and the per-service
// clients for the remote data APIs. Every terminal failure is typed: an
// *Error carries the failure kind, the upstream status code and any
// retry-after hint, so handlers never see an untyped transport fault.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/parks-mcp/internal/common"
)

// Kind tags the terminal outcome of an upstream call.
type Kind string

const (
	KindAuth                Kind = "auth"
	KindRateLimited         Kind = "rate_limited"
	KindNotFound            Kind = "not_found"
	KindBadRequest          Kind = "bad_request"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindNetwork             Kind = "network"
	KindUnknown             Kind = "unknown"
)

// Error is the typed failure returned by every client in this package.
type Error struct {
	Kind       Kind
	StatusCode int
	RetryAfter int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Classify extracts the typed upstream error from err, wrapping anything
// untyped as KindUnknown. Never returns nil for a non-nil err.
func Classify(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindUnknown, Message: err.Error()}
}

// RetryPolicy bounds the retry schedule for transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy retries twice with exponential backoff starting at
// one second, never waiting more than thirty seconds between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Config carries the per-service connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Headers are injected on every outgoing request.
	Headers map[string]string
	// RateLimit is the client-side request budget per second; 0 disables
	// pacing.
	RateLimit int
	Retry     RetryPolicy
}

// Client is the shared GET engine. One instance per upstream service,
// constructed at startup and safe for concurrent use; the underlying
// http.Client pools connections across invocations.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
	retry   RetryPolicy
	logger  *common.Logger
}

// Responses larger than this are truncated on read.
const maxResponseBytes = 1 << 20

// New creates a client for the named service.
func New(name string, cfg Config, logger *common.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		headers: cfg.Headers,
		limiter: limiter,
		retry:   cfg.Retry,
		logger:  logger,
	}
}

// Get performs a GET against path, retrying transient failures within the
// policy bound. The returned error is always an *Error. A 429 response
// honors the server's Retry-After hint, capped at the policy's MaxDelay;
// 4xx responses other than 429 are returned immediately without consuming
// retry budget. Cancellation of ctx stops the schedule promptly,
// including mid-backoff.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("rate limit wait aborted: %v", err)}
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if apiErr := c.sleep(ctx, c.backoffDelay(attempt, lastErr)); apiErr != nil {
				return nil, apiErr
			}
		}

		body, apiErr := c.do(ctx, target, path, attempt)
		if apiErr == nil {
			return body, nil
		}
		lastErr = apiErr
		if ctx.Err() != nil || !retryable(apiErr.Kind) {
			return nil, lastErr
		}
	}

	c.logger.Warn().
		Str("service", c.name).
		Str("path", path).
		Str("kind", string(lastErr.Kind)).
		Int("attempts", c.retry.MaxRetries+1).
		Msg("upstream retries exhausted")
	return nil, lastErr
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, target, path string, attempt int) ([]byte, *Error) {
	c.logger.Debug().
		Str("service", c.name).
		Str("method", http.MethodGet).
		Str("path", path).
		Int("attempt", attempt+1).
		Msg("upstream request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("service", c.name).
			Str("path", path).
			Dur("duration", duration).
			Msg("upstream request failed")
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("read response: %v", err)}
	}

	c.logger.Debug().
		Str("service", c.name).
		Str("path", path).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("upstream response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classifyStatus(resp.StatusCode, resp.Header, body)
}

// retryable reports whether a failure kind may consume retry budget.
// Client-input failures (auth, not found, bad request) never retry.
func retryable(kind Kind) bool {
	switch kind {
	case KindRateLimited, KindUpstreamUnavailable, KindNetwork:
		return true
	}
	return false
}

// backoffDelay computes the wait before the given attempt. A server
// Retry-After hint from the previous response wins over the exponential
// schedule; either way the wait never exceeds MaxDelay.
func (c *Client) backoffDelay(attempt int, last *Error) time.Duration {
	if last != nil && last.RetryAfter > 0 {
		delay := time.Duration(last.RetryAfter) * time.Second
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
		return delay
	}
	delay := c.retry.BaseDelay << (attempt - 1)
	if delay > c.retry.MaxDelay {
		delay = c.retry.MaxDelay
	}
	if delay > 0 {
		delay += time.Duration(rand.Int63n(int64(delay)/4 + 1))
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) *Error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return &Error{Kind: KindNetwork, Message: "request canceled during backoff"}
	case <-timer.C:
		return nil
	}
}

func classifyTransport(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindNetwork, Message: "request canceled"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindUpstreamUnavailable, Message: "request timed out"}
	}
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf("network error: %v", err)}
}

func classifyStatus(status int, header http.Header, body []byte) *Error {
	message := errorMessage(status, body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuth, StatusCode: status, Message: message}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, Message: message}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, StatusCode: status, RetryAfter: retryAfterSeconds(header), Message: message}
	case status >= 400 && status < 500:
		return &Error{Kind: KindBadRequest, StatusCode: status, Message: message}
	default:
		return &Error{Kind: KindUpstreamUnavailable, StatusCode: status, Message: message}
	}
}

// retryAfterSeconds parses the delay-seconds form of Retry-After.
// The HTTP-date form is rare on the services involved and reads as 0.
func retryAfterSeconds(header http.Header) int {
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

// errorMessage pulls a human-readable message out of an upstream error
// body. The services involved disagree on shape, so both the nested and
// the flat form are tried before falling back to the status text.
func errorMessage(status int, body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &flat) == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("upstream returned %d %s", status, text)
	}
	return fmt.Sprintf("upstream returned %d", status)
}
