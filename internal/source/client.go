package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/priyamv/jobhub/internal/model"
)

// hostLimiter rate-limits requests per hostname so one harvest does not
// hammer any single API, no matter how many adapters share it.
type hostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func newHostLimiter(reqPerSec float64, burst int) *hostLimiter {
	return &hostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *hostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

func (hl *hostLimiter) wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}

// Client is the HTTP layer shared by every adapter: per-request timeout,
// per-host rate limiting, and retry with backoff on transient failures.
type Client struct {
	hc         *http.Client
	limiter    *hostLimiter
	maxRetries int
	baseDelay  time.Duration
}

// NewClient builds a client with the given per-request timeout and
// per-host request rate.
func NewClient(requestTimeout time.Duration, reqPerSec float64, burst int) *Client {
	return &Client{
		hc:         &http.Client{Timeout: requestTimeout},
		limiter:    newHostLimiter(reqPerSec, burst),
		maxRetries: 2,
		baseDelay:  1 * time.Second,
	}
}

// GetJSON fetches rawURL and decodes the JSON body into v. Non-2xx
// responses come back as *model.HTTPError. Transient failures (network
// errors, 429, 5xx) are retried with exponential backoff and jitter
// before the error is surfaced.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(c.backoffDelay(attempt, lastErr)):
			}
		}

		err := c.getJSONOnce(ctx, rawURL, v)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) getJSONOnce(ctx context.Context, rawURL string, v any) error {
	if err := c.limiter.wait(ctx, rawURL); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jobhub/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("get %s: unexpected status %d", req.URL.Host, resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Host, err)
	}
	return nil
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration from a 429 takes precedence.
func (c *Client) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether an error represents a transient failure
// worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	// Decode failures are not transient; everything else (network, DNS) is.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return true
}

// parseRetryAfter parses a Retry-After header in seconds format. Returns
// zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
