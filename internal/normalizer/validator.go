package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"seowriter/internal/models"
)

// Validation errors.
var (
	ErrNilInput           = errors.New("no input given")
	ErrMissingTopic       = errors.New("topic is required")
	ErrInvalidArticleType = errors.New("article type must be general or review")
	ErrInvalidAffiliate   = errors.New("affiliate link must look like Platform=URL")
)

// Validator checks raw input before it is normalized.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks if input meets requirements. Product and affiliate URLs are passed
// through as given; only the Platform=URL shape is checked. A product URL that cannot be
// fetched degrades to a minimal product record at scrape time.
func (v *Validator) Validate(in *Input) error {
	if in == nil {
		return ErrNilInput
	}

	if strings.TrimSpace(in.Topic) == "" {
		return ErrMissingTopic
	}

	switch models.ArticleType(strings.ToLower(strings.TrimSpace(in.Type))) {
	case "", models.ArticleGeneral, models.ArticleReview:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidArticleType, in.Type)
	}

	for i, pair := range in.Affiliates {
		if _, _, ok := splitAffiliate(pair); !ok {
			return fmt.Errorf("%w at index %d: %q", ErrInvalidAffiliate, i, pair)
		}
	}

	return nil
}
