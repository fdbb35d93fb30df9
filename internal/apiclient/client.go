package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the highlights backend REST API.
//
// The base URL may be absolute ("https://api.example.com") or relative (the default, empty).
// A relative base URL is resolved against the origin stored in the request context by WithOrigin,
// which the web layer fills from the configured public origin of the site.
type Client struct {
	httpClient *http.Client

	mu      sync.RWMutex
	baseURL string
}

// Default is the shared client used by the web controllers.
var Default = New("")

// New creates a client with the given base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// Configure overrides the base URL of the Default client when an environment-provided value is
// present. It is meant to run once at startup before any request is issued; calling it again
// only reassigns the base URL.
func Configure(baseURL string, present bool) {
	if !present {
		return
	}
	Default.SetBaseURL(baseURL)
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL replaces the base URL.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = baseURL
	c.mu.Unlock()
}

// SetTimeout replaces the underlying HTTP client with one using the given timeout.
// Not safe to call while requests are in flight.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	c.httpClient = &http.Client{Timeout: timeout}
}

type originKey struct{}

// WithOrigin stores the origin ("scheme://host") used to resolve a relative base URL.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext returns the origin stored by WithOrigin.
func OriginFromContext(ctx context.Context) (string, bool) {
	origin, ok := ctx.Value(originKey{}).(string)
	return origin, ok && origin != ""
}

// ParseOrigin validates a configured public origin and reduces it to "scheme://host[:port]".
// Origins are never taken from inbound requests: the Host header is client-controlled.
func ParseOrigin(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", raw, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("origin %q must be an absolute http(s) URL", raw)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// resolve builds the absolute URL for an API path such as "/api/v1/books/1".
func (c *Client) resolve(ctx context.Context, path string) (string, error) {
	base := c.BaseURL()

	if parsed, err := url.Parse(base); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return strings.TrimRight(base, "/") + path, nil
	}

	origin, ok := OriginFromContext(ctx)
	if !ok {
		return "", ErrNoOrigin
	}

	prefix := strings.Trim(base, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}
	return strings.TrimRight(origin, "/") + prefix + path, nil
}

// AssetURL turns a backend file reference (such as a book cover path) into a fetchable URL.
// Absolute references are returned unchanged.
func (c *Client) AssetURL(ctx context.Context, ref string) (string, error) {
	if parsed, err := url.Parse(ref); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return ref, nil
	}
	return c.resolve(ctx, "/"+strings.TrimLeft(ref, "/"))
}

// do issues a JSON request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	target, err := c.resolve(ctx, path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError, using the backend's
// {"detail": "..."} body when present.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Detail any `json:"detail"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if detail, ok := payload.Detail.(string); ok {
			message = detail
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// Ping checks that the backend answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
