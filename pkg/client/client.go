// Package client is the Go SDK for the budgeting API. It wraps the HTTP
// transport so that every failure, from a connection refusal to a field
// validation error, surfaces as the same APIError shape and callers can
// branch on the status alone.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every request. There is no retry, a slow call
// fails and the caller decides what to do.
const DefaultTimeout = 15 * time.Second

// APIError is the normalized error for every failed call. Status is the
// HTTP status code, or 0 when the request never produced a response.
// Data carries the parsed error payload when there was one.
type APIError struct {
	Message string
	Status  int
	Data    any
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNetworkError reports whether err is an APIError for a failure that
// happened before any response was received.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// StatusOf returns the HTTP status of an APIError in err's chain, or -1
// when err carries no APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// Client calls the budgeting API. The zero value is not usable, use New.
type Client struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, for tests or for
// callers that need custom transport settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// New returns a Client for the API at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      &http.Client{Timeout: DefaultTimeout},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// SetToken sets the bearer token that is attached to subsequent requests.
// An empty string removes the token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the currently configured bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Do performs one request against the API. path is relative to the base
// URL and may carry a query string. A non-nil body is sent as JSON. On
// success the response body is decoded into out, unless out is nil.
//
// Every failure is returned as an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("encoding request body: %v", err), Status: 0}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("building request: %v", err), Status: 0}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: no response was
		// received, so the status is 0.
		return &APIError{Message: fmt.Sprintf("request failed: %v", err), Status: 0}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("reading response: %v", err), Status: 0}
	}

	payload := parseBody(res.Header.Get("Content-Type"), raw)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{
			Message: errorMessage(res.StatusCode, payload),
			Status:  res.StatusCode,
			Data:    payload,
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{
			Message: fmt.Sprintf("decoding response: %v", err),
			Status:  res.StatusCode,
			Data:    payload,
		}
	}

	return nil
}

// parseBody decodes a response body according to its content type. JSON
// bodies become their decoded value, everything else is kept as a string.
// An empty or undecodable body yields nil.
func parseBody(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")) {
		var payload any
		if err := json.Unmarshal(raw, &payload); err == nil {
			return payload
		}
		return nil
	}

	return string(raw)
}

// errorMessage extracts a human readable message from an error payload.
// It understands both a string "detail" field and the validation shape
// where "detail" is a list of {loc, msg} entries, which is flattened to
// the first message per field.
func errorMessage(status int, payload any) string {
	switch body := payload.(type) {
	case map[string]any:
		if detail, ok := body["detail"]; ok {
			if msg := detailMessage(detail); msg != "" {
				return msg
			}
		}
		if msg, ok := body["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := body["error"].(string); ok && msg != "" {
			return msg
		}
	case string:
		if body != "" {
			return body
		}
	}

	return fmt.Sprintf("Request failed with status %d", status)
}

func detailMessage(detail any) string {
	switch d := detail.(type) {
	case string:
		return d
	case []any:
		var parts []string
		seen := make(map[string]bool)

		for _, entry := range d {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			msg, _ := m["msg"].(string)
			if msg == "" {
				continue
			}

			field := lastLoc(m["loc"])
			if field != "" {
				if seen[field] {
					continue
				}
				seen[field] = true
				parts = append(parts, field+": "+msg)
			} else {
				parts = append(parts, msg)
			}
		}

		return strings.Join(parts, "; ")
	}

	return ""
}

// lastLoc returns the innermost element of a validation error location,
// which is the field name.
func lastLoc(loc any) string {
	list, ok := loc.([]any)
	if !ok || len(list) == 0 {
		return ""
	}

	field, _ := list[len(list)-1].(string)
	return field
}
