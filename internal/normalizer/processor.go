// Package normalizer turns raw command-line or file input into a generation request.
package normalizer

import (
	"fmt"

	"seowriter/internal/models"
)

// Input is a generation request as typed by a user: keywords as one comma-separated
// string and affiliate links as "Platform=URL" pairs.
type Input struct {
	Type           string   `json:"articleType" yaml:"article_type"`
	Topic          string   `json:"topic" yaml:"topic"`
	ProductURL     string   `json:"productUrl" yaml:"product_url"`
	Keywords       string   `json:"keywords" yaml:"keywords"`
	GeoLocation    string   `json:"geoLocation" yaml:"geo_location"`
	CustomReviews  string   `json:"customReviews" yaml:"custom_reviews"`
	Affiliates     []string `json:"affiliates" yaml:"affiliates"`
	GenerateImages bool     `json:"generateImages" yaml:"generate_images"`
}

// Processor validates and normalizes input.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Process turns raw input into a generation request.
func (p *Processor) Process(in *Input) (models.GenerationRequest, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(in); err != nil {
		return models.GenerationRequest{}, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	return p.transformer.Transform(in), nil
}
