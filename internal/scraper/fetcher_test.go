package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seowriter/internal/config"
)

func fastRetry(attempts int) config.RetryPolicy {
	return config.RetryPolicy{
		MaxAttempts:       attempts,
		InitialDelayMs:    1,
		MaxDelayMs:        5,
		BackoffMultiplier: 2.0,
		TimeoutSec:        5,
	}
}

func TestFetcher_RetriesTemporaryFailures(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, status, _, err := NewFetcher(fastRetry(3), "ua").FetchWithMetrics(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_DoesNotRetryPermanentFailures(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, status, _, err := NewFetcher(fastRetry(3), "ua").FetchWithMetrics(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrUnexpectedStatusCode)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	}))
	defer srv.Close()

	body, err := NewFetcher(fastRetry(1), "seowriter-test").Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "seowriter-test", body)
}

func TestFetcher_StopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	policy := fastRetry(5)
	policy.InitialDelayMs = 60_000
	policy.MaxDelayMs = 60_000

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, _, err := NewFetcher(policy, "ua").FetchWithMetrics(ctx, srv.URL)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 503, 504} {
		assert.True(t, isRetryableStatus(code), code)
	}

	for _, code := range []int{400, 403, 404, 500} {
		assert.False(t, isRetryableStatus(code), code)
	}
}
