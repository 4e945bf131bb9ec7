package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"seowriter/internal/config"
	"seowriter/internal/logger"
)

var (
	ErrMissingAPIKey = errors.New("image API key not configured")
	ErrNoImageURL    = errors.New("image API response carried no URL")
)

// Generator produces an image URL for a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type generateRequest struct {
	Prompt  string `json:"prompt"`
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type generateResponse struct {
	ImageURL string `json:"image_url"`
	URL      string `json:"url"`
}

// Client calls the image generation HTTP API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
	cfg        config.ImagesConfig
}

// NewClient creates an image API client. Requests are paced by cfg.RequestsPerSecond
// when it is positive.
func NewClient(cfg config.ImagesConfig, log *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(limit, 1),
		log:        log.Component("imagegen"),
		cfg:        cfg,
	}, nil
}

// Generate requests one image and returns its URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(generateRequest{
		Prompt:  prompt,
		Quality: c.cfg.Quality,
		Width:   c.cfg.Width,
		Height:  c.cfg.Height,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	url := parsed.ImageURL
	if url == "" {
		url = parsed.URL
	}

	if url == "" {
		return "", ErrNoImageURL
	}

	c.log.Debug("image generated", "prompt_len", len(prompt))

	return url, nil
}

// WithPlaceholderFallback wraps gen so that any failure yields PlaceholderURL(prompt)
// instead of an error. Cancellation of ctx is still reported.
func WithPlaceholderFallback(gen Generator, log *logger.Logger) Generator {
	if log == nil {
		log = logger.Discard()
	}

	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		url, err := gen.Generate(ctx, prompt)
		if err == nil {
			return url, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		log.Warn("image generation failed, using placeholder image", "error", err)

		return PlaceholderURL(prompt), nil
	})
}
