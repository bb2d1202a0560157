// Package apiclient holds the HTTP plumbing shared by the provider clients:
// rate limiting, retries with exponential backoff and JSON decoding.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/macrolens/productscan/internal/domain"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 5 << 20

// Config configures a Client
type Config struct {
	Name            string // log tag, e.g. "USDA"
	Timeout         time.Duration
	RequestsPerHour int
	Burst           int
	MaxAttempts     int
	UserAgent       string
}

// Client executes GET requests against a JSON API
type Client struct {
	name        string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxAttempts int
	userAgent   string
	debug       bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a new API client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 3
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 10
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "productscan/1.0"
	}

	// rate.Limit is requests per second
	limit := rate.Inf
	if cfg.RequestsPerHour > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerHour) / 3600)
	}

	return &Client{
		name:        cfg.Name,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(limit, burst),
		maxAttempts: attempts,
		userAgent:   userAgent,
		sleep:       sleepContext,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// GetJSON issues a GET to reqURL and decodes a 200 body into out.
// A 404 maps to domain.ErrProductNotFound. Transport errors, 429 and 5xx
// are retried up to MaxAttempts; any other status fails immediately.
func (c *Client) GetJSON(ctx context.Context, reqURL string, header http.Header, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, exponentialBackoff(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[%s] Rate limiter error: %v", c.name, err)
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		body, status, err := c.doRequest(ctx, reqURL, header)
		if err != nil {
			log.Printf("[%s] Request error (attempt %d): %v", c.name, attempt, err)
			lastErr = err
			continue
		}

		if c.debug {
			log.Printf("[%s] GET %s -> %d (%d bytes)", c.name, redact(reqURL), status, len(body))
		}

		switch {
		case status == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				log.Printf("[%s] JSON decode error: %v", c.name, err)
				return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
			}
			return nil
		case status == http.StatusNotFound:
			return domain.ErrProductNotFound
		case status == http.StatusTooManyRequests || status >= 500:
			log.Printf("[%s] API error (attempt %d) - Status: %d", c.name, attempt, status)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, status)
			continue
		default:
			log.Printf("[%s] API error - Status: %d, Body: %s", c.name, status, truncate(body, 256))
			return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, status)
		}
	}

	log.Printf("[%s] All %d attempts failed", c.name, c.maxAttempts)
	return lastErr
}

// doRequest executes one HTTP GET and returns the body and status code
func (c *Client) doRequest(ctx context.Context, reqURL string, header http.Header) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %v", domain.ErrProviderUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// exponentialBackoff returns the wait before retry number n (1-based)
func exponentialBackoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return time.Duration(500*(1<<(n-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
