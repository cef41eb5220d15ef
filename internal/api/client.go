// Package api is the HTTP client of the quote backend.
package api

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
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/quotedesk/quotedesk/internal/colors"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/version"
)

// RefreshPath is the token refresh endpoint.
const RefreshPath = "/api/auth/token/refresh/"

// TokenSource holds the bearer tokens the client sends and rotates.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	// RotateTokens stores a refreshed access token and, when non-empty, a new refresh token.
	RotateTokens(ctx context.Context, access, refresh string) error
	// Expire clears the session after an unrecoverable authorization failure.
	Expire(ctx context.Context)
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL      string
	http         *http.Client
	limiter      *rate.Limiter
	tokens       TokenSource
	myQuotesPath string
	logger       logging.Logger

	refreshMu sync.Mutex
}

// New creates a client for baseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(DefaultRateLimit, DefaultRateBurst),
		myQuotesPath: DefaultMyQuotesPath,
		logger:       logging.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the loaded configuration.
func NewFromConfig(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithTimeout(config.GetDuration("request_timeout", DefaultTimeout)),
		WithRateLimit(float64(config.GetInt("rate_limit", DefaultRateLimit)), config.GetInt("rate_burst", DefaultRateBurst)),
		WithMyQuotesPath(config.Get("my_quotes_path", DefaultMyQuotesPath)),
	}
	return New(config.Get("api_url", "http://localhost:8000"), append(base, opts...)...)
}

// BaseURL returns the resolved backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one call.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	accept  string
	noRetry bool
}

// response is a raw backend reply with a 2xx status.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

// do sends req, refreshing the access token once on a 401 and re-issuing
// the request with the new token. A request is never retried twice.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	sentWith := c.accessToken()
	resp, err := c.send(ctx, req, sentWith)
	if err == nil {
		return resp, nil
	}
	if StatusOf(err) != http.StatusUnauthorized || req.noRetry || c.tokens == nil {
		return nil, err
	}

	if rerr := c.refresh(ctx, sentWith); rerr != nil {
		c.tokens.Expire(ctx)
		colors.StructuredInfo("api", "refresh", "failed", rerr, map[string]any{"path": req.path})
		return nil, &APIError{Method: req.method, Path: req.path, Status: http.StatusUnauthorized, Err: fmt.Errorf("%w: %w", ErrSessionExpired, rerr)}
	}
	return c.send(ctx, req, c.accessToken())
}

// refresh exchanges the stored refresh token for a new access token. When
// another caller already rotated the token since stale was sent, it returns
// immediately so concurrent 401s share a single refresh.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.tokens.AccessToken(); current != "" && current != stale {
		return nil
	}
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	payload, _ := json.Marshal(map[string]string{"refresh": refreshToken})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RefreshPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())

	res, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode/100 != 2 {
		return &APIError{Method: http.MethodPost, Path: RefreshPath, Status: res.StatusCode, Payload: decodePayload(raw), Raw: raw}
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if tokens.Access == "" {
		return errors.New("refresh response has no access token")
	}
	c.logger.Debug("access token refreshed")
	return c.tokens.RotateTokens(ctx, tokens.Access, tokens.Refresh)
}

func (c *Client) send(ctx context.Context, req request, token string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Method: req.method, Path: req.path, Err: err}
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, &APIError{Method: req.method, Path: req.path, Err: err}
	}
	requestID := uuid.NewString()
	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	httpReq.Header.Set("X-Request-ID", requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed", "method", req.method, "path", req.path, "request_id", requestID, "error", err)
		return nil, &APIError{Method: req.method, Path: req.path, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{Method: req.method, Path: req.path, Status: res.StatusCode, Err: err}
	}
	c.logger.Debug("request completed",
		"method", req.method,
		"path", req.path,
		"status", res.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if res.StatusCode/100 != 2 {
		return nil, &APIError{Method: req.method, Path: req.path, Status: res.StatusCode, Payload: decodePayload(raw), Raw: raw}
	}
	return &response{status: res.StatusCode, header: res.Header, body: raw}, nil
}

// call sends req and decodes a JSON reply into out when out is non-nil.
func (c *Client) call(ctx context.Context, req request, out any) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// decodeList accepts either a bare array or a paginated {"results": [...]}.
func decodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page.Results, nil
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](resp.body)
	if err != nil {
		return nil, fmt.Errorf("decode GET %s: %w", path, err)
	}
	return items, nil
}
