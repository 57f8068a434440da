// Package api provides the HTTP client used for all requests against the
// Letta API. One GET, bounded timeout, no retries: probe semantics want the
// first answer the server gives, not an eventually-successful one.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/letta-tools/lettaq/internal/auth"
	"github.com/letta-tools/lettaq/internal/config"
	"github.com/letta-tools/lettaq/internal/output"
	"github.com/letta-tools/lettaq/internal/version"
)

// PreviewLimit bounds the raw-body excerpt shown for failed requests.
const PreviewLimit = 200

// Client is an HTTP client for the Letta API.
type Client struct {
	httpClient *http.Client
	auth       *auth.Manager
	cfg        *config.Config
}

// Response wraps a completed HTTP exchange. A non-2xx status is not an
// error at this layer; callers classify it.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// NewClient creates a new API client.
func NewClient(cfg *config.Config, authMgr *auth.Manager) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
			},
		},
		auth: authMgr,
		cfg:  cfg,
	}
}

// Get performs a GET request against base URL + path.
// The returned error is non-nil only for transport-level failures
// (DNS, refused connection, timeout) or an unusable request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildURL(path), nil)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid request path", err.Error())
	}

	if token := c.auth.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}

// BuildURL joins the configured base URL with a request path.
func (c *Client) BuildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cfg.BaseURL + path
}

// HasCredential reports whether a bearer credential is configured.
func (c *Client) HasCredential() bool {
	return c.auth.Token() != ""
}

// JSON parses a 2xx response body as JSON. A 204 or empty body yields
// an empty object so callers always get valid JSON.
func (r *Response) JSON() (json.RawMessage, error) {
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(r.Body) {
		return nil, output.ErrParse(fmt.Errorf("HTTP %d body is not JSON: %s", r.StatusCode, BodyPreview(r.Body)))
	}
	return json.RawMessage(r.Body), nil
}

// Err classifies a non-2xx status into a structured error; nil for 2xx.
func (r *Response) Err() error {
	switch {
	case r.StatusCode >= 200 && r.StatusCode < 300:
		return nil
	case r.StatusCode == http.StatusNotFound:
		return output.ErrNotFound("Endpoint", "404")
	case r.StatusCode == http.StatusUnauthorized:
		return output.ErrAuth("Authentication failed (401)")
	case r.StatusCode == http.StatusForbidden:
		return output.ErrAPI(403, "Access denied (403)")
	default:
		msg := fmt.Sprintf("Request failed (HTTP %d)", r.StatusCode)
		if preview := BodyPreview(r.Body); preview != "" {
			msg = fmt.Sprintf("%s: %s", msg, preview)
		}
		return output.ErrAPI(r.StatusCode, msg)
	}
}

// BodyPreview returns the body as a single trimmed line, truncated to
// PreviewLimit characters with a trailing indicator.
func BodyPreview(body []byte) string {
	s := strings.TrimSpace(string(body))
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= PreviewLimit {
		return s
	}
	cut := PreviewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
