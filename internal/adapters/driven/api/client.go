// Package api implements the backend API ports over HTTP. The backend
// is split across three services (ingestion, query, auth), each with its
// own base URL; one Client speaks to all three.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

const (
	defaultIngestionURL = "http://localhost:8001"
	defaultQueryURL     = "http://localhost:8000"
	defaultAuthURL      = "http://localhost:8002"
	defaultTimeout      = 30 * time.Second

	// Conservative client-side ceiling; the backend enforces its own
	// limits and answers 429 beyond them.
	defaultRequestsPerSecond = 10.0
	defaultBurst             = 20

	// maxErrorBody caps how much of an error response is read for the
	// detail message.
	maxErrorBody = 64 << 10
)

// Config holds the HTTP client settings. Zero values fall back to the
// local development defaults.
type Config struct {
	// IngestionURL is the base URL of the class/document service.
	IngestionURL string

	// QueryURL is the base URL of the question-answering service.
	QueryURL string

	// AuthURL is the base URL of the auth service.
	AuthURL string

	// Timeout bounds each request end to end.
	Timeout time.Duration

	// RequestsPerSecond is the sustained client-side rate limit.
	RequestsPerSecond float64

	// Burst is the token bucket burst size.
	Burst int
}

// Client is the HTTP implementation of the backend API ports. All
// requests carry a request id; authenticated requests carry the bearer
// token from the token source.
type Client struct {
	http         *http.Client
	ingestionURL string
	queryURL     string
	authURL      string
	limiter      *rate.Limiter
	tokens       driven.TokenSource
}

// Ensure Client implements the backend API ports.
var (
	_ driven.ClassAPI    = (*Client)(nil)
	_ driven.DocumentAPI = (*Client)(nil)
	_ driven.QueryAPI    = (*Client)(nil)
	_ driven.AuthAPI     = (*Client)(nil)
)

// NewClient creates a backend client. tokens may be nil for a client
// that only performs unauthenticated calls.
func NewClient(cfg Config, tokens driven.TokenSource) *Client {
	if cfg.IngestionURL == "" {
		cfg.IngestionURL = defaultIngestionURL
	}
	if cfg.QueryURL == "" {
		cfg.QueryURL = defaultQueryURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	return &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		ingestionURL: cfg.IngestionURL,
		queryURL:     cfg.QueryURL,
		authURL:      cfg.AuthURL,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		tokens:       tokens,
	}
}

// do executes a prepared request with the common headers applied.
// Transport failures wrap domain.ErrBackendUnreachable; the caller owns
// the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("%s %s", req.Method, req.URL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w",
			req.Method, req.URL.Path, err, domain.ErrBackendUnreachable)
	}
	return resp, nil
}

// doJSON executes a request with an optional JSON body and decodes a
// JSON response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.finish(req, out)
}

// finish runs the request, maps error statuses and decodes the body.
func (c *Client) finish(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// apiError turns an error response into a domain.APIError, extracting
// the server's detail message when the body carries one.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == "" {
		// Not all error responses are JSON; fall back to the status alone.
		return &domain.APIError{StatusCode: resp.StatusCode}
	}
	return &domain.APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
}
