// Package client talks to the remote paper analysis service. The service
// is an opaque collaborator: one upload endpoint, one health endpoint, and
// a {"detail": "..."} error body on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// DefaultEndpoint is the local analysis service address.
const DefaultEndpoint = "http://127.0.0.1:8000"

// analysisTimeout bounds a full upload+analysis round trip. Topic
// extraction on the service side takes tens of seconds for large papers.
const analysisTimeout = 3 * time.Minute

// uploadRate spaces successive uploads. A single in-flight request is
// already enforced by the UI disabling its upload control; the limiter
// keeps a scripted caller (MCP) from hammering the service.
const uploadRate = rate.Limit(0.2) // one upload per 5s

// Client is the analysis service client.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the given endpoint.
// endpoint defaults to DefaultEndpoint if empty.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: analysisTimeout},
		limiter:  rate.NewLimiter(uploadRate, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze uploads a PDF and returns the normalized analysis.
//
// All three failure classes — transport errors, non-success statuses, and
// malformed response bodies — collapse into a single error whose message
// is fit to show the user directly; the service's own "detail" string is
// preferred when the response carries one.
func (c *Client) Analyze(ctx context.Context, filename string, r io.Reader) (*paper.Analysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/analyze-paper", &buf)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s", errorDetail(body, resp.StatusCode))
	}

	analysis, err := paper.ParseAnalysis(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected analysis response: %w", err)
	}
	return analysis, nil
}

// Ping checks the health of the analysis service.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// errorDetail extracts the service's "detail" message from an error body,
// falling back to a generic message when the body is not that shape.
func errorDetail(body []byte, status int) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fmt.Sprintf("analysis failed (HTTP %d)", status)
}
