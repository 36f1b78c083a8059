// Package apiclient is the HTTP client for the primary Altrion backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/logger"
	"altrion-client/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// TokenSource yields the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
}

type Option func(*Client)

// WithName labels the client in logs and metrics.
func WithName(name string) Option { return func(c *Client) { c.name = name } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = logger.OrNop(l) } }

// New returns a client rooted at baseURL. tokens may be nil for unauthenticated backends.
func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		name:       "api",
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request and decodes a 2xx JSON body into out (when out is non-nil).
// Transport failures are *apperr.NetworkError, non-2xx statuses *apperr.APIError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.buildURL(path, params)
	op := method + " " + path

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		nerr := &apperr.NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
		c.observe(method, "network", start)
		c.log.Warn("backend call failed",
			zap.String("client", c.name), zap.String("op", op),
			zap.String("request_id", reqID), zap.Bool("timeout", nerr.Timeout), zap.Error(err))
		return nerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, "network", start)
		return &apperr.NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data any
		if len(raw) > 0 {
			if jerr := json.Unmarshal(raw, &data); jerr != nil {
				data = nil
			}
		}
		c.observe(method, "status_"+statusClass(resp.StatusCode), start)
		c.log.Info("backend returned error status",
			zap.String("client", c.name), zap.String("op", op),
			zap.String("request_id", reqID), zap.Int("status", resp.StatusCode))
		return apperr.NewAPIError(resp.StatusCode, statusText(resp), data)
	}

	c.observe(method, "ok", start)
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

func (c *Client) buildURL(path string, params url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) observe(method, outcome string, start time.Time) {
	metrics.APIRequestDuration.WithLabelValues(c.name, method, outcome).Observe(time.Since(start).Seconds())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

// statusText strips the numeric prefix net/http puts in Response.Status.
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
