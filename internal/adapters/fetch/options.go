package fetch

import (
	"net/http"

	"github.com/okian/placemap/pkg/logger"
	"golang.org/x/time/rate"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRate paces every request at r per second with the given burst.
// A non-positive r removes pacing.
func WithRate(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithVideoWindow sets how many leading bytes of a video are fetched.
func WithVideoWindow(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.videoWindow = n
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
