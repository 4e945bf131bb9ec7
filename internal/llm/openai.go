package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"seowriter/internal/logger"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4-turbo-preview"
)

// OpenAIConfig configures the chat completions client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultOpenAIConfig returns the defaults used by the article generator.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:     apiKey,
		BaseURL:    DefaultOpenAIBaseURL,
		Model:      DefaultOpenAIModel,
		Timeout:    2 * time.Minute,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OpenAIClient implements Completer for the OpenAI chat completions API.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewOpenAIClient creates a client. Zero fields in cfg take the defaults.
func NewOpenAIClient(cfg OpenAIConfig, log *logger.Logger) *OpenAIClient {
	def := DefaultOpenAIConfig(cfg.APIKey)

	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}

	if cfg.Model == "" {
		cfg.Model = def.Model
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if log == nil {
		log = logger.Discard()
	}

	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("openai"),
	}
}

// Complete sends the system and user prompts and returns the first choice.
// 429 responses and transport errors are retried with exponential backoff.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	var messages []openAIMessage
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}

	messages = append(messages, openAIMessage{Role: "user", Content: req.User})

	payload, err := json.Marshal(openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	c.log.Debug("completion requested", "model", model, "system_len", len(req.System), "user_len", len(req.User))

	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryDelay * time.Duration(1<<uint(attempt-1))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		text, retry, err := c.do(ctx, payload)
		if err == nil {
			c.log.Debug("completion finished", "model", model, "elapsed", time.Since(start), "response_len", len(text))

			return text, nil
		}

		if !retry {
			return "", err
		}

		lastErr = err
		c.log.Warn("completion attempt failed", "attempt", attempt+1, "error", err)
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one HTTP round trip. The bool reports whether the error is retryable.
func (c *OpenAIClient) do(ctx context.Context, payload []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}

		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, ErrRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return "", false, fmt.Errorf("API error: %s", parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", false, ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, false, nil
}
