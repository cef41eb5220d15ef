package api

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/quotedesk/quotedesk/internal/logging"
)

const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the steady request rate per second.
	DefaultRateLimit = 10
	// DefaultRateBurst is the request burst allowance.
	DefaultRateBurst = 20
	// DefaultMyQuotesPath lists the quotes of the signed-in client.
	DefaultMyQuotesPath = "/api/quotes/my-quotes/"
)

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithRateLimit sets the client-side rate limit. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTokens sets where the client reads and rotates bearer tokens.
func WithTokens(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithMyQuotesPath overrides the path of the client's own quote list.
func WithMyQuotesPath(path string) ClientOption {
	return func(c *Client) {
		c.myQuotesPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}
