package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"seowriter/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

const defaultBodyLimitKb = 4096

// Fetcher downloads pages with config-driven retry logic.
type Fetcher struct {
	client      *http.Client
	retryPolicy config.RetryPolicy
	userAgent   string
	bodyLimitKb int
}

// NewFetcher creates a fetcher. The retry policy timeout bounds each attempt.
func NewFetcher(retryPolicy config.RetryPolicy, userAgent string) *Fetcher {
	if retryPolicy.MaxAttempts < 1 {
		retryPolicy.MaxAttempts = 1
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		userAgent:   userAgent,
		bodyLimitKb: defaultBodyLimitKb,
	}
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (f *Fetcher) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, f.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return "", lastStatusCode, totalDuration, err
			}
		}

		startTime := time.Now()
		body, status, retry, err := f.fetchOnce(ctx, url)
		totalDuration += time.Since(startTime)
		lastStatusCode = status

		if err == nil {
			return body, status, totalDuration, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, f.retryPolicy.MaxAttempts, err)

		if !retry || ctx.Err() != nil {
			break
		}
	}

	return "", lastStatusCode, totalDuration, lastErr
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := f.FetchWithMetrics(ctx, url)

	return content, err
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, isRetryableStatus(resp.StatusCode),
			fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bodyLimitKb is in KB, convert to bytes
	limit := int64(f.bodyLimitKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	// Retry on temporary failures
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
