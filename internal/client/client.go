package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cookedfr/cookedfr/internal/schema"
)

const (
	DefaultServerURL = "http://localhost:8080"
	DefaultPath      = "/api/fortune"
	DefaultTimeout   = 90 * time.Second
)

// ErrNetwork is returned for a non-2xx relay response that carries no error message.
var ErrNetwork = errors.New("network response was not ok")

// RelayError is a non-2xx response from the relay.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrNetwork when the relay sent no message.
func (e *RelayError) Unwrap() error {
	if e.Message == ErrNetwork.Error() {
		return ErrNetwork
	}
	return nil
}

// Client talks to a fortune relay over HTTP.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithPath overrides the relay path.
func WithPath(path string) Option {
	return func(c *Client) {
		c.path = path
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a relay client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       DefaultPath,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tell posts name to the relay and returns the fortune text.
// A 2xx body missing the fortune field yields an empty string.
func (c *Client) Tell(ctx context.Context, name string) (string, error) {
	body, err := json.Marshal(schema.FortuneRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp schema.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return "", fmt.Errorf("failed to decode error response (status %d): %w", resp.StatusCode, err)
		}
		msg := errResp.Error
		if msg == "" {
			msg = ErrNetwork.Error()
		}
		return "", &RelayError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out schema.FortuneResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Fortune, nil
}

// Health queries the relay health endpoint.
func (c *Client) Health(ctx context.Context, detailed bool) (*schema.HealthResponse, error) {
	url := c.baseURL + "/v1/health"
	if detailed {
		url += "?detailed=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var health schema.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &health, nil
}
