package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// bodies are drained so connections can be reused, but never beyond this
const maxDrainSize = 1 << 20 // 1MB

const (
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
)

// Response holds the raw outcome of a single request made by [Client].
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the time taken by the request as measured by the client.
	Latency time.Duration

	// Error contains any transport-level error (DNS, connection refused,
	// timeout, TLS). nil means a response was received, whatever its status.
	Error error
}

// ClientConfig configures a [Client].
type ClientConfig struct {
	// Concurrency sizes the per-host connection pool. Values below 1 are
	// treated as 1.
	Concurrency int

	// Timeout bounds each probe. Zero means no timeout beyond what the
	// transport itself applies.
	Timeout time.Duration

	// Headers are set on every request.
	Headers map[string]string
}

// Client is an HTTP client wrapper for issuing load-test probes.
//
// Client applies timeouts per request via context rather than as a global
// client timeout, so a zero timeout leaves requests unbounded.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
}

// NewClient creates a probe [Client].
//
// The transport keeps one idle connection per worker and host so that
// successive probes from the same worker reuse their connection.
func NewClient(cfg ClientConfig) *Client {
	conns := cfg.Concurrency
	if conns < 1 {
		conns = 1
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        max(defaultMaxIdleConns, conns),
				MaxIdleConnsPerHost: conns,
				IdleConnTimeout:     defaultIdleConnTimeout,
				ForceAttemptHTTP2:   true,
			},
		},
		timeout: cfg.Timeout,
		headers: headers,
	}
}

// Fetch performs a GET request against url and returns a [Response].
//
// Fetch always returns a Response; errors are captured in the Error field
// rather than returned separately, so a failed probe is data, not control flow.
func (c *Client) Fetch(ctx context.Context, url string) Response {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainSize)); err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil receiver. The client remains
// usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
