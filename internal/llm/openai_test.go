package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got openAIRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<h2>Olá</h2>"}}]}`))
	})

	text, err := client.Complete(context.Background(), Request{
		System:      "sys",
		User:        "user",
		Temperature: 0.3,
		MaxTokens:   4000,
	})

	require.NoError(t, err)
	assert.Equal(t, "<h2>Olá</h2>", text)
	assert.Equal(t, DefaultOpenAIModel, got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	assert.Equal(t, 4000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openAIMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, openAIMessage{Role: "user", Content: "user"}, got.Messages[1])
}

func TestOpenAIClient_ModelOverrideAndNoSystem(t *testing.T) {
	var got openAIRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), Request{User: "u", Model: "gpt-4o"})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestOpenAIClient_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"done"}}]}`))
	})

	text, err := client.Complete(context.Background(), Request{User: "u"})

	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), Request{User: "u"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrEmptyCompletion},
		{name: "invalid json", status: http.StatusOK, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), Request{User: "u"})

			require.Error(t, err)
			assert.Equal(t, int32(1), calls.Load(), "non-retryable errors are not retried")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIClient_MissingKey(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{}, nil)

	_, err := client.Complete(context.Background(), Request{User: "u"})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIClient_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "k",
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryDelay: time.Hour,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, Request{User: "u"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
