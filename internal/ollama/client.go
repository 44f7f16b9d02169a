// Package ollama talks to the Ollama generation runtime over its HTTP API.
package ollama

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
)

// DefaultHost is the runtime address inside the compose network.
const DefaultHost = "http://ollama:11434"

// Runtime is the generation runtime consumed by the code service.
type Runtime interface {
	ListModels(ctx context.Context) ([]Model, error)
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Model describes an entry of the runtime catalog.
type Model struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Digest     string `json:"digest,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// Options are the sampling parameters sent with a generate call.
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

// GenerateResponse is the non-streaming reply of POST /api/generate.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client is an HTTP implementation of Runtime.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient validates host and returns a client for it. The default HTTP
// client has no timeout: generations run until the runtime answers.
func NewClient(host string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(host) == "" {
		host = DefaultHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: parse host: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("ollama: unsupported scheme %q in host %q", u.Scheme, host)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("ollama: missing host in %q", host)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the runtime address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels returns the runtime catalog from GET /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}

	var out tagsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// Generate issues a single non-streaming POST /api/generate.
func (c *Client) Generate(ctx context.Context, genReq GenerateRequest) (*GenerateResponse, error) {
	genReq.Stream = false
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out GenerateResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama: decode response: %w", err)
	}
	return nil
}

// StatusError is returned when the runtime answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ollama: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("ollama: unexpected status %d: %s", e.StatusCode, e.Message)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))

	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

// IsNotFound reports whether err is a runtime 404, e.g. an unknown model.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// ModelNames extracts the names of a catalog.
func ModelNames(models []Model) []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return names
}
