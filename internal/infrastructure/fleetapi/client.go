// Package fleetapi is the portal's typed client for the remote fleet REST
// API. All vehicle, rental and account data lives behind this boundary; the
// portal holds no copy of it beyond per-view snapshots.
package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// APIError carries a failure reported by the fleet API. Message is the
// server-supplied message when one was present, so the UI can show it
// verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("fleet api: unexpected status %d", e.StatusCode)
}

// UserMessage returns the server-supplied message, empty when the response
// carried none. The services show it to the user verbatim.
func (e *APIError) UserMessage() string { return e.Message }

// Config captures the settings for the outbound client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps the outbound call rate. Zero disables the cap.
	RequestsPerSecond float64
}

// Client implements ports.CarCatalog, ports.CarAdmin, ports.RentalAPI and
// ports.AccountAPI against a single fleet API deployment.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New builds a Client. BaseURL must include the API prefix (e.g.
// http://host:5153/api); a trailing slash is tolerated.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond))
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		limiter: limiter,
		log:     log,
	}
}

// request describes one call to the fleet API.
type request struct {
	method string
	path   string
	query  url.Values
	token  string
	// body and contentType are set together for POST payloads.
	body        io.Reader
	contentType string
}

// Ping checks that the fleet API answers at all. An HTTP error status still
// counts as reachable; only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/MsCar", query: url.Values{"page": {"1"}}})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil
	}
	return err
}

// do executes the request and returns the raw response body. Non-2xx
// responses become an *APIError carrying the server's message field.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, req.body)
	if err != nil {
		return nil, err
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Str("method", req.method).Str("path", req.path).Msg("fleet api request failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = body.Message
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("method", req.method).
			Str("path", req.path).Str("message", apiErr.Message).Msg("fleet api error response")
		return nil, apiErr
	}

	return raw, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	raw, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// postJSON performs a POST with a JSON payload and returns the raw body.
func (c *Client) postJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		body:        bytes.NewReader(buf),
		contentType: "application/json",
	})
}
