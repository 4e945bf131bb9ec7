// Package config provides configuration management for the article generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
	ErrUnknownProvider          = errors.New("llm.provider must be 'openai' or 'gemini'")
	ErrUnknownProofreadMode     = errors.New("llm.proofread must be one of: llm, basic, off")
	ErrInvalidTemperature       = errors.New("llm temperatures must be between 0 and 2")
	ErrInvalidMaxTokens         = errors.New("llm.max_tokens must be at least 1")
	ErrInvalidTimeout           = errors.New("timeout_sec must be at least 1")
	ErrInvalidImageSize         = errors.New("images.width and images.height must be positive")
	ErrInvalidConcurrency       = errors.New("images.concurrency must be at least 1")
	ErrInvalidRate              = errors.New("images.requests_per_second must be non-negative")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrUnknownCacheBackend      = errors.New("scraper.cache.backend must be one of: none, memory, redis")
	ErrMissingRedisAddr         = errors.New("scraper.cache.redis_addr is required for the redis backend")
	ErrInvalidCacheSize         = errors.New("scraper.cache.size must be at least 1")
	ErrInvalidWordsPerMinute    = errors.New("seo.words_per_minute must be at least 1")
	ErrUnknownOutputBackend     = errors.New("output.backend must be 'local' or 's3'")
	ErrMissingOutputPath        = errors.New("output.base_path is required for the local backend")
	ErrMissingBucket            = errors.New("output.s3.bucket and output.s3.region are required for the s3 backend")
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Proofreading modes.
const (
	ProofreadLLM   = "llm"
	ProofreadBasic = "basic"
	ProofreadOff   = "off"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Output backends.
const (
	OutputLocal = "local"
	OutputS3    = "s3"
)

// Config represents the complete generator configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	LLM     LLMConfig     `yaml:"llm"`
	Images  ImagesConfig  `yaml:"images"`
	Scraper ScraperConfig `yaml:"scraper"`
	SEO     SEOConfig     `yaml:"seo"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LLMConfig selects and tunes the language-model backend.
type LLMConfig struct {
	Provider             string  `yaml:"provider"`
	APIKey               string  `yaml:"api_key"`
	BaseURL              string  `yaml:"base_url"`
	Model                string  `yaml:"model"`
	Proofread            string  `yaml:"proofread"`
	Temperature          float64 `yaml:"temperature"`
	ProofreadTemperature float64 `yaml:"proofread_temperature"`
	MaxTokens            int     `yaml:"max_tokens"`
	TimeoutSec           int     `yaml:"timeout_sec"`
}

// ImagesConfig configures the image generation API.
type ImagesConfig struct {
	Endpoint            string  `yaml:"endpoint"`
	APIKey              string  `yaml:"api_key"`
	Quality             string  `yaml:"quality"`
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	TimeoutSec          int     `yaml:"timeout_sec"`
	Concurrency         int     `yaml:"concurrency"`
	RequestsPerSecond   float64 `yaml:"requests_per_second"`
	Enabled             bool    `yaml:"enabled"`
	PlaceholderFallback bool    `yaml:"placeholder_fallback"`
}

// ScraperConfig configures product page fetching.
type ScraperConfig struct {
	UserAgent     string      `yaml:"user_agent"`
	Cache         CacheConfig `yaml:"cache"`
	Retry         RetryPolicy `yaml:"retry"`
	RespectRobots bool        `yaml:"respect_robots"`
}

// CacheConfig configures the scraped product cache.
type CacheConfig struct {
	Backend       string `yaml:"backend"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSec        int    `yaml:"ttl_sec"`
	Size          int    `yaml:"size"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// SEOConfig holds the site identity written into meta tags and JSON-LD.
type SEOConfig struct {
	SiteName       string `yaml:"site_name"`
	SiteURL        string `yaml:"site_url"`
	CanonicalURL   string `yaml:"canonical_url"`
	LogoURL        string `yaml:"logo_url"`
	Author         string `yaml:"author"`
	WordsPerMinute int    `yaml:"words_per_minute"`
	GuardRepeats   bool   `yaml:"guard_repeats"`
}

// OutputConfig defines where generated articles are published.
type OutputConfig struct {
	Backend  string   `yaml:"backend"`
	BasePath string   `yaml:"base_path"`
	S3       S3Config `yaml:"s3"`
	Sign     bool     `yaml:"sign"`
}

// S3Config contains S3-compatible storage settings.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		LLM: LLMConfig{
			Provider:             ProviderOpenAI,
			BaseURL:              "https://api.openai.com/v1",
			Model:                "gpt-4-turbo-preview",
			Proofread:            ProofreadLLM,
			Temperature:          0.7,
			ProofreadTemperature: 0.3,
			MaxTokens:            4000,
			TimeoutSec:           120,
		},
		Images: ImagesConfig{
			Endpoint:            "https://api.nanobanana.io/v1/generate",
			Quality:             "high",
			Width:               1024,
			Height:              768,
			TimeoutSec:          30,
			Concurrency:         1,
			Enabled:             true,
			PlaceholderFallback: true,
		},
		Scraper: ScraperConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			Cache: CacheConfig{
				Backend: CacheMemory,
				TTLSec:  3600,
				Size:    128,
			},
			Retry: RetryPolicy{
				MaxAttempts:       2,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        10,
			},
		},
		SEO: SEOConfig{
			SiteName:       "Your Site Name",
			SiteURL:        "https://yourdomain.com",
			CanonicalURL:   "https://yourdomain.com/article-url",
			LogoURL:        "https://yourdomain.com/logo.png",
			Author:         "AI Content Generator",
			WordsPerMinute: 200,
		},
		Output: OutputConfig{
			Backend:  OutputLocal,
			BasePath: "./articles",
			Sign:     true,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// ${VAR} references in the file are expanded from the environment.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load returns the defaults when filepath is empty and LoadConfig otherwise.
func Load(filepath string) (*Config, error) {
	if filepath == "" {
		cfg := Default()
		cfg.applyEnv()

		return cfg, cfg.Validate()
	}

	return LoadConfig(filepath)
}

// applyEnv fills API keys left empty from the conventional environment variables.
func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderGemini:
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if c.Images.APIKey == "" {
		c.Images.APIKey = os.Getenv("NANO_BANANA_API_KEY")
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if err := c.LLM.validate(); err != nil {
		return err
	}

	if err := c.Images.validate(); err != nil {
		return err
	}

	if err := c.Scraper.Retry.Validate(); err != nil {
		return fmt.Errorf("scraper.%w", err)
	}

	switch c.Scraper.Cache.Backend {
	case CacheNone:
	case CacheMemory:
		if c.Scraper.Cache.Size < 1 {
			return ErrInvalidCacheSize
		}
	case CacheRedis:
		if c.Scraper.Cache.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return ErrUnknownCacheBackend
	}

	if c.SEO.WordsPerMinute < 1 {
		return ErrInvalidWordsPerMinute
	}

	switch c.Output.Backend {
	case OutputLocal:
		if c.Output.BasePath == "" {
			return ErrMissingOutputPath
		}
	case OutputS3:
		if c.Output.S3.Bucket == "" || c.Output.S3.Region == "" {
			return ErrMissingBucket
		}
	default:
		return ErrUnknownOutputBackend
	}

	return nil
}

func (l *LLMConfig) validate() error {
	if l.Provider != ProviderOpenAI && l.Provider != ProviderGemini {
		return ErrUnknownProvider
	}

	switch l.Proofread {
	case ProofreadLLM, ProofreadBasic, ProofreadOff:
	default:
		return ErrUnknownProofreadMode
	}

	if l.Temperature < 0 || l.Temperature > 2 || l.ProofreadTemperature < 0 || l.ProofreadTemperature > 2 {
		return ErrInvalidTemperature
	}

	if l.MaxTokens < 1 {
		return ErrInvalidMaxTokens
	}

	if l.TimeoutSec < 1 {
		return fmt.Errorf("llm.%w", ErrInvalidTimeout)
	}

	return nil
}

func (i *ImagesConfig) validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return ErrInvalidImageSize
	}

	if i.TimeoutSec < 1 {
		return fmt.Errorf("images.%w", ErrInvalidTimeout)
	}

	if i.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if i.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	return nil
}

// Validate checks the retry policy bounds.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return fmt.Errorf("retry.%w", ErrInvalidTimeout)
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// Timeout returns the LLM request timeout.
func (l *LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSec) * time.Second
}

// Timeout returns the image request timeout.
func (i *ImagesConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutSec) * time.Second
}

// TTL returns the cache entry lifetime. Zero means entries never expire.
func (cc *CacheConfig) TTL() time.Duration {
	return time.Duration(cc.TTLSec) * time.Second
}

// ImagesAvailable reports whether image generation can be attempted at all.
func (c *Config) ImagesAvailable() bool {
	return c.Images.Enabled && c.Images.APIKey != ""
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Provider: %s, Model: %s, Images: %t, Cache: %s, Output: %s}",
		c.LLM.Provider,
		c.LLM.Model,
		c.ImagesAvailable(),
		c.Scraper.Cache.Backend,
		c.Output.Backend,
	)
}
