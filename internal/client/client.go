// Package client is the HTTP client used by the command-line tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where the server listens in local setups.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds a whole request, including generation.
	DefaultTimeout = 200 * time.Second
)

// Response is the union of the success and error bodies the server returns.
type Response struct {
	Code        string  `json:"code,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	ModelUsed   string  `json:"model_used,omitempty"`
	ElapsedMs   int64   `json:"elapsed_ms,omitempty"`
	Detail      string  `json:"detail,omitempty"`
	Error       string  `json:"error,omitempty"`
	Details     any     `json:"details,omitempty"`

	// Raw is the undecoded body.
	Raw json.RawMessage `json:"-"`
}

// ConnectionError means the server could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "connect: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError means the server did not answer in time.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Body)
}

// DecodeError is a 2xx answer whose body is not JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string { return "invalid JSON response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Client talks to a codemaster-ai server.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New returns a client for baseURL. Zero values fall back to the defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateCode posts prompt to /generate-code.
func (c *Client) GenerateCode(ctx context.Context, prompt string) (*Response, error) {
	return c.post(ctx, "/generate-code", map[string]string{"prompt": prompt})
}

// FixCode posts code and instructions to /fix-code.
func (c *Client) FixCode(ctx context.Context, code, instructions string) (*Response, error) {
	return c.post(ctx, "/fix-code", map[string]string{
		"file_code":    code,
		"instructions": instructions,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &DecodeError{Body: strings.TrimSpace(string(raw)), Err: err}
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Timeout: c.timeout, Err: err}
	}
	return &ConnectionError{Err: err}
}
