// Package backend is the client for the ledger REST backend.
//
// Every call is independent. There is no caching, de-duplication or retry,
// callers re-fetch whatever they need after a mutation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultURL is where the backend listens in a development setup.
	DefaultURL  = "http://localhost:8000"
	maxBodySize = 8 << 20 // 8 MB
	userAgent   = "program-ledger-console"
)

// Client talks to the ledger backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every single request. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parsing base URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("backend: base URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the URL of the backend.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// request describes a single call to the backend.
type request struct {
	method string
	route  string // path template, used as metric label
	path   string
	query  url.Values
	body   any
}

// do executes the request and decodes a successful response into out.
// out may be nil if the response body is not needed.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("backend: encoding request for %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return fmt.Errorf("backend: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := RequestID(ctx)
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	logger := log.With().
		Str("request-id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observe(r, "error", start)
		logger.Error().Err(err).Msg("backend request failed")
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	observe(r, strconv.Itoa(resp.StatusCode), start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("reading backend response failed")
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Status: resp.StatusCode,
			Method: r.method,
			Path:   r.path,
			Detail: parseDetail(raw),
		}
		logger.Error().Int("status", resp.StatusCode).Str("detail", apiErr.Detail).Msg("backend rejected request")
		return apiErr
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("backend request")

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		logger.Error().Err(err).Msg("decoding backend response failed")
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, r.method, r.path, err)
	}

	return nil
}

// Ping checks that the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{
		method: http.MethodGet,
		route:  programsPath,
		path:   programsPath,
		query:  url.Values{"limit": []string{"1"}},
	}, nil)
}

func itemPath(collection string, id fmt.Stringer) string {
	return collection + id.String()
}

func itemRoute(collection string) string {
	return collection + "{id}"
}
