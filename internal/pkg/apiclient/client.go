package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is used when neither the client nor the request sets one
const DefaultTimeout = 10 * time.Second

// Request describes a single upstream call
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// Timeout overrides the client default when positive
	Timeout time.Duration
}

// Client is a small JSON-over-HTTP client bound to one base URL.
// It never retries; callers that want a policy wrap it themselves.
type Client struct {
	name       string
	baseURL    string
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client
	metrics    *Metrics
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout sets the default per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHeader adds a default header sent with every request
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithName labels logs and metrics of this client
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// New creates a client for baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       "default",
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		headers:    map[string]string{"Content-Type": "application/json"},
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("client", c.name)
	return c
}

// BaseURL returns the origin this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the default per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do performs req and returns the parsed JSON body
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	payload, status, err := c.do(ctx, method, req, timeout)
	c.observe(method, status, start, err)

	if err != nil {
		c.logger.Error("upstream request failed",
			"method", method,
			"path", req.Path,
			"kind", string(Kind(err)),
			"error", err)
		return nil, err
	}

	c.logger.Debug("upstream request completed",
		"method", method,
		"path", req.Path,
		"status", status,
		"duration", time.Since(start))
	return payload, nil
}

func (c *Client) do(ctx context.Context, method string, req Request, timeout time.Duration) (json.RawMessage, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, c.transportError(ctx, reqCtx, timeout, err)
	}
	defer resp.Body.Close()

	// Handle non-2xx responses
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, &HTTPError{
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, c.transportError(ctx, reqCtx, timeout, err)
	}

	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, resp.StatusCode, &MalformedResponseError{Err: err}
	}

	return payload, resp.StatusCode, nil
}

// transportError tells our own deadline apart from the caller giving up
func (c *Client) transportError(parent, reqCtx context.Context, timeout time.Duration, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("request cancelled: %w", parent.Err())
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: timeout}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: timeout}
	}

	return &NetworkError{Err: err}
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + query.Encode()
}

func (c *Client) observe(method string, status int, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.TotalRequests.WithLabelValues(c.name, method).Inc()
	c.metrics.RequestDuration.WithLabelValues(c.name, method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ErrorTotal.WithLabelValues(c.name, string(Kind(err))).Inc()
	}
}

// GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// DELETE request. The upstream APIs expect the identifier in a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Body: body})
}
