package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the Zoom REST API v2 base.
	DefaultBaseURL = "https://api.zoom.us/v2"
	// DefaultTokenURL is the Zoom OAuth token endpoint.
	DefaultTokenURL = "https://zoom.us/oauth/token"
)

// Client talks to the Zoom recording API on behalf of one set of
// credentials. A Client is meant to live for a single tool call and is not
// safe for concurrent use.
type Client struct {
	creds Credentials

	baseURL    string
	tokenURL   string
	userAgent  string
	httpClient *http.Client
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.tokenURL = u }
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder. A nil recorder disables metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUserAgent sets the User-Agent header on API requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithClock replaces time.Now, used to compute token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a Client. At least one of AccessToken and RefreshToken
// must be set, otherwise ErrMissingCredentials is returned.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		creds:      creds,
		baseURL:    DefaultBaseURL,
		tokenURL:   DefaultTokenURL,
		httpClient: http.DefaultClient,
		logger:     logging.DefaultLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Credentials returns a copy of the client's current credentials.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// response is a fully read upstream reply.
type response struct {
	status int
	body   []byte
}

// get issues one authenticated GET and reads the whole body. A non-nil
// error means no response was obtained.
func (c *Client) get(ctx context.Context, operation, rawURL string, query url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	endpoint := instrumentation.EndpointTemplate(req.URL.EscapedPath())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordZoomRequest(ctx, operation, endpoint, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.RecordZoomRequest(ctx, operation, endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("zoom api response",
		logging.Operation(operation),
		"endpoint", endpoint,
		logging.StatusCode(resp.StatusCode),
		"bytes", len(body),
	)

	return &response{status: resp.StatusCode, body: body}, nil
}

// fetchJSON performs a read and applies the shared normalization: 401 is
// reported as unauthorized, other non-200 codes as an upstream failure
// naming resource, and a missing or undecodable response as a transport
// failure. On success the raw body is returned.
func (c *Client) fetchJSON(ctx context.Context, operation, resource, rawURL string, query url.Values) ([]byte, *APIError) {
	resp, err := c.get(ctx, operation, rawURL, query)
	if err != nil {
		c.logger.Warn("zoom api request failed", logging.Operation(operation), logging.Err(err))
		return nil, transportFailed(err)
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		c.logger.Info("zoom api rejected token", logging.Operation(operation), logging.StatusCode(resp.status))
		return nil, unauthorized(resp.body)
	case resp.status != http.StatusOK:
		c.logger.Info("zoom api returned error", logging.Operation(operation), logging.StatusCode(resp.status))
		return nil, retrieveFailed(resource, resp.status, resp.body)
	}

	if !json.Valid(resp.body) {
		return nil, transportFailed(fmt.Errorf("invalid JSON in %s response", resource))
	}

	return resp.body, nil
}

// meetingPath returns the escaped path segment for a meeting ID or UUID.
// Zoom requires UUIDs that start with "/" or contain "//" to be encoded twice.
func meetingPath(meetingID string) string {
	escaped := url.PathEscape(meetingID)
	if strings.HasPrefix(meetingID, "/") || strings.Contains(meetingID, "//") {
		escaped = url.PathEscape(escaped)
	}
	return escaped
}
