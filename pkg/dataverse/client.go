// Package dataverse provides a minimal client for the Dataverse REST API:
// URL construction, an HTTP client with a shared in-flight request gate,
// typed response envelopes, and the connectivity/auth probe.
//
// The client performs exactly one attempt per request. Batch callers
// record per-request failures instead of raising them; see pkg/crawl.
package dataverse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxInFlight bounds the number of simultaneously in-flight
// requests when no explicit limit is configured.
const DefaultMaxInFlight = 10

var (
	// ErrNotFound is returned when a resource doesn't exist in the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// non-2xx responses other than 404).
	ErrNetwork = errors.New("network error")
)

// Client is an authenticated Dataverse API client. All requests made
// through one Client share a single counting gate limiting in-flight
// requests, and a single connection pool.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http  *http.Client
	token string
	gate  chan struct{}
}

// NewClient creates a Client. token may be empty for unauthenticated
// crawling. maxInFlight <= 0 selects [DefaultMaxInFlight].
//
// The request timeout is intentionally unbounded: dataset metadata
// responses can be very large on slow repositories. Use WithTimeout to
// opt into one.
func NewClient(token string, maxInFlight int) *Client {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Client{
		http:  &http.Client{},
		token: token,
		gate:  make(chan struct{}, maxInFlight),
	}
}

// WithTimeout returns the client with a per-request timeout applied.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// Authenticated reports whether the client carries an API token.
func (c *Client) Authenticated() bool { return c.token != "" }

// Unauthenticated returns a copy of the client without the API token,
// sharing the same gate and connection pool. Used to downgrade a run
// after the auth probe rejects the configured token.
func (c *Client) Unauthenticated() *Client {
	return &Client{http: c.http, token: "", gate: c.gate}
}

// Result is the outcome of a single fetch. Exactly one of two failure
// shapes applies: Err non-nil with StatusCode 0 (transport-level failure,
// no HTTP response), or Err nil with a non-2xx StatusCode.
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

// OK reports whether the fetch succeeded: HTTP 200 with a non-empty JSON
// body. A 200 with an empty body is a failure — it cannot be told apart
// from a transient API glitch, so it must not pass as "no contents".
func (r Result) OK() bool {
	if r.Err != nil || r.StatusCode != http.StatusOK {
		return false
	}
	body := bytes.TrimSpace(r.Body)
	return len(body) > 0 && !bytes.Equal(body, []byte("null"))
}

// Fetch performs one GET bounded by the client's gate. It never returns
// an error: transport and HTTP failures are captured in the Result for
// the caller's failure accounting.
func (c *Client) Fetch(ctx context.Context, url string) Result {
	select {
	case c.gate <- struct{}{}:
		defer func() { <-c.gate }()
	case <-ctx.Done():
		return Result{URL: url, Err: ctx.Err()}
	}

	resp, err := c.do(ctx, url)
	if err != nil {
		return Result{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{URL: url, Err: err}
	}
	return Result{URL: url, StatusCode: resp.StatusCode, Body: body}
}

// GetJSON performs one gate-bounded GET and decodes the response body
// into v. Non-200 statuses map onto the sentinel errors.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	res := c.Fetch(ctx, url)
	if res.Err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, res.Err)
	}
	if err := checkStatus(res.StatusCode); err != nil {
		return err
	}
	if err := json.Unmarshal(res.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Dataverse-key", c.token)
	}
	return c.http.Do(req)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
