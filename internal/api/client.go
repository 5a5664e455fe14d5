// Package api is the read-only client for the conversational agent
// backend's dashboard API. It decodes payloads into typed structs at this
// boundary and normalizes all failures into *Error; it adds no retry,
// backoff, or timeout on top of the transport.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client talks to the agent backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given base URL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Transport defaults only: the refresh cadence is the retry
		// mechanism, and callers bound calls via context if they need to.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Metrics fetches the current metrics snapshot.
func (c *Client) Metrics(ctx context.Context) (*MetricsSnapshot, error) {
	var snap MetricsSnapshot
	if err := c.getJSON(ctx, "/api/metrics", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Conversations fetches the conversation list in backend order.
func (c *Client) Conversations(ctx context.Context) ([]ConversationSummary, error) {
	var list []ConversationSummary
	if err := c.getJSON(ctx, "/api/conversations", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Conversation fetches one conversation with its full transcript. The id
// is taken verbatim from a prior summary and URL-escaped, nothing more.
func (c *Client) Conversation(ctx context.Context, id string) (*ConversationDetail, error) {
	var detail ConversationDetail
	path := "/api/conversations/" + url.PathEscape(id)
	if err := c.getJSON(ctx, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// getJSON issues a GET and decodes the body into out. The response body
// of a non-2xx answer is not interpreted.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Kind: ErrTransport, Path: path, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: ErrTransport, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: ErrStatus, Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: ErrParse, Path: path, Err: err}
	}
	return nil
}
