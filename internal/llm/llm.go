// Package llm provides the language-model collaborators used to write and proofread articles.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seowriter/internal/config"
	"seowriter/internal/logger"
)

var (
	ErrMissingAPIKey   = errors.New("llm API key not configured")
	ErrEmptyCompletion = errors.New("no completion returned")
	ErrRateLimited     = errors.New("rate limit exceeded (429)")
)

// Request is a single chat completion request.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// New builds the completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout(),
		}, log), nil
	case config.ProviderGemini:
		model := cfg.Model
		if model == "" || strings.HasPrefix(model, "gpt-") {
			model = DefaultGeminiModel
		}

		baseURL := cfg.BaseURL
		if baseURL == DefaultOpenAIBaseURL {
			baseURL = ""
		}

		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			BaseURL: baseURL,
			Model:   model,
			Timeout: cfg.Timeout(),
		}, log)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownProvider, cfg.Provider)
	}
}
