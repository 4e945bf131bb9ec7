// Package validator checks finished article HTML for structural SEO problems and tampering.
package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seowriter/internal/imagegen"
	"seowriter/internal/seo"
	"seowriter/pkg/metadata"
)

// DefaultMinWords is the word count below which an article gets a warning.
const DefaultMinWords = 300

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains the counts the checks were based on.
type ValidationStats struct {
	Words          int
	H1             int
	Images         int
	ImagesWithAlt  int
	ExternalLinks  int
	UnsafeBlanks   int
	Placeholders   int
	MetaDescLength int
}

// ArticleValidator validates generated article HTML.
type ArticleValidator struct {
	keywords []string
	minWords int
}

// NewArticleValidator creates a validator. keywords are checked for presence;
// minWords below 1 uses DefaultMinWords.
func NewArticleValidator(keywords []string, minWords int) *ArticleValidator {
	if minWords < 1 {
		minWords = DefaultMinWords
	}

	return &ArticleValidator{keywords: keywords, minWords: minWords}
}

// ValidateArticle checks structure: an article without text or <h1>, or with raw image
// placeholders left in it, is invalid. Weaker problems become warnings.
func (v *ArticleValidator) ValidateArticle(article string) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	_, clean := metadata.Extract(article)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		result.addError("html", "", fmt.Sprintf("article is not parseable HTML: %v", err))

		return result
	}

	stats := &result.Stats
	stats.Words = seo.CountWords(clean)
	stats.H1 = doc.Find("h1").Length()
	stats.Placeholders = len(imagegen.Find(clean))

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		stats.Images++

		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			stats.ImagesWithAlt++
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}

		stats.ExternalLinks++

		target, _ := s.Attr("target")
		rel, _ := s.Attr("rel")

		if target == "_blank" && !strings.Contains(rel, "noopener") {
			stats.UnsafeBlanks++
		}
	})

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		stats.MetaDescLength = len([]rune(desc))
	}

	if stats.Words == 0 {
		result.addError("body", "", "article has no text")
	}

	if stats.H1 == 0 {
		result.addError("h1", "", "article has no <h1> heading")
	} else if stats.H1 > 1 {
		result.warn("article has %d <h1> headings, expected one", stats.H1)
	}

	if stats.Placeholders > 0 {
		result.addError("images", imagegen.Find(clean)[0].Description,
			fmt.Sprintf("%d image placeholders were not replaced", stats.Placeholders))
	}

	if stats.Words > 0 && stats.Words < v.minWords {
		result.warn("article is short: %d words, expected at least %d", stats.Words, v.minWords)
	}

	if missing := stats.Images - stats.ImagesWithAlt; missing > 0 {
		result.warn("%d images have no alt text", missing)
	}

	if stats.UnsafeBlanks > 0 {
		result.warn("%d links open a new tab without rel=noopener", stats.UnsafeBlanks)
	}

	if stats.MetaDescLength == 0 {
		result.warn("article has no meta description")
	}

	for _, keyword := range v.keywords {
		if seo.CountKeyword(seo.StripTags(clean), keyword) == 0 {
			result.warn("keyword %q does not appear in the text", keyword)
		}
	}

	return result
}

// ValidateIntegrity checks the provenance block of a signed article.
func ValidateIntegrity(content string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if _, err := metadata.Verify(content); err != nil {
		result.addError("provenance", "", fmt.Sprintf("integrity check failed: %v", err))
	}

	return result
}

func (r *ValidationResult) addError(field, value, message string) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Words: %d | H1: %d | Images: %d/%d with alt | Errors: %d | Warnings: %d",
		status,
		r.Stats.Words,
		r.Stats.H1,
		r.Stats.ImagesWithAlt,
		r.Stats.Images,
		len(r.Errors),
		len(r.Warnings),
	)
}

// PrintErrors writes validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Field != "" {
			fmt.Fprintf(w, "  [%s]", err.Field)
		}

		fmt.Fprintf(w, " %s\n", err.Message)

		if err.Value != "" {
			fmt.Fprintf(w, "    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings writes validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
