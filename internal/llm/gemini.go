package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"seowriter/internal/logger"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiClient implements Completer on top of the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewGeminiClient creates a Gemini API backed completer.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *logger.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	if log == nil {
		log = logger.Discard()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		log:    log.Component("gemini"),
	}, nil
}

// Complete generates content for the user prompt with the system prompt as instruction.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}

	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	c.log.Debug("completion requested", "model", model, "user_len", len(req.User))

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.User), genCfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}
