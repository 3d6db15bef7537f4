// Package fetch warms place media over HTTP. Every call reports success as a
// boolean; nothing here returns an error to the caller.
package fetch

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"io"
	"net/http"
	"time"

	"github.com/okian/placemap/internal/adapters/mq/worker"
	"github.com/okian/placemap/internal/domain/model"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/metrics"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultVideoWindow = 64 << 10
	defaultRate        = 20
	defaultBurst       = 4
)

// Client issues paced warm-up requests.
type Client struct {
	http        *http.Client
	limiter     *rate.Limiter
	videoWindow int64
	logger      logger.Logger
}

// New creates a client with configuration options.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(defaultRate, defaultBurst),
		videoWindow: defaultVideoWindow,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Task returns the warm function for kind.
func (c *Client) Task(kind model.MediaKind) worker.Task {
	if kind == model.MediaVideo {
		return c.Video
	}
	return c.Image
}

// Image downloads url and checks that it decodes as an image header.
func (c *Client) Image(ctx context.Context, url string) bool {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Debug(ctx, "image warm failed", logger.String("url", url), logger.Error(err))
		return false
	}
	defer resp.Body.Close()

	if _, _, err := image.DecodeConfig(resp.Body); err != nil {
		c.logger.Debug(ctx, "image decode failed", logger.String("url", url), logger.Error(err))
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return true
}

// Video fetches the leading window of url, enough for container metadata.
func (c *Client) Video(ctx context.Context, url string) bool {
	header := http.Header{}
	header.Set("Range", fmt.Sprintf("bytes=0-%d", c.videoWindow-1))
	resp, err := c.do(ctx, http.MethodGet, url, header)
	if err != nil {
		c.logger.Debug(ctx, "video warm failed", logger.String("url", url), logger.Error(err))
		return false
	}
	defer resp.Body.Close()

	if _, err := io.CopyN(io.Discard, resp.Body, c.videoWindow); err != nil && err != io.EOF {
		c.logger.Debug(ctx, "video read failed", logger.String("url", url), logger.Error(err))
		return false
	}
	return true
}

// Hint sends a HEAD request for url in the background and returns at once.
// The returned channel is closed when the request finished.
func (c *Client) Hint(ctx context.Context, url string, kind model.MediaKind) <-chan struct{} {
	done := make(chan struct{})
	if url == "" {
		close(done)
		return done
	}
	metrics.RecordPreloadHint(string(kind))
	go func() {
		defer close(done)
		resp, err := c.do(ctx, http.MethodHead, url, nil)
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
	return done
}

func (c *Client) do(ctx context.Context, method, url string, header http.Header) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return resp, nil
}
