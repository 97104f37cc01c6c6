package kaspi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BackoffFunc returns the delay before retry n (1-based).
type BackoffFunc func(retry int) time.Duration

// LinearBackoff waits retry * base between attempts. Deliberately linear, not
// exponential: the retry budget is small and the upstream recovers quickly.
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		return time.Duration(retry) * base
	}
}

// RetryClient posts JSON with a bounded per-attempt timeout and a bounded
// retry budget. Any non-2xx status is a failure and takes the same retry path
// as a network error or timeout.
type RetryClient struct {
	HTTPClient *http.Client
	Retries    int           // retries after the first attempt
	Timeout    time.Duration // per attempt
	Backoff    BackoffFunc
}

func NewRetryClient(retries int, timeout, retryDelay time.Duration) *RetryClient {
	return &RetryClient{
		HTTPClient: &http.Client{},
		Retries:    retries,
		Timeout:    timeout,
		Backoff:    LinearBackoff(retryDelay),
	}
}

// PostJSON performs one upstream call: up to Retries+1 attempts, each bounded
// by Timeout. On exhaustion the last underlying error is returned wrapped
// together with ErrUpstreamUnavailable, never a bare "request failed".
func (c *RetryClient) PostJSON(ctx context.Context, url string, body any, headers http.Header) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.Backoff(attempt)); err != nil {
				return nil, err
			}
		}

		payload, err := c.post(ctx, url, encoded, headers)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, lastErr)
}

func (c *RetryClient) post(ctx context.Context, url string, body []byte, headers http.Header) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(payload, 200))
	}
	return payload, nil
}

// sleepCtx blocks for d unless the context finishes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
