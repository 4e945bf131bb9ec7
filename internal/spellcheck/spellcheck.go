// Package spellcheck corrects spelling in generated articles, either through a language
// model or with a small built-in list of common misspellings.
package spellcheck

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"seowriter/internal/config"
	"seowriter/internal/llm"
	"seowriter/internal/logger"
)

// ProofreadSystemPrompt is the system message sent with proofreading requests.
const ProofreadSystemPrompt = "You are a professional proofreader. Fix any spelling, grammar, and punctuation errors in the provided text. Maintain the original HTML structure and formatting. Return ONLY the corrected text without any explanations."

var (
	ErrNoCompleter = errors.New("no language model configured")
	ErrEmptyResult = errors.New("proofreader returned empty text")
)

type correction struct {
	re    *regexp.Regexp
	right string
}

// corrections are applied in this order.
var corrections = buildCorrections([][2]string{
	{"teh", "the"},
	{"adn", "and"},
	{"recieve", "receive"},
	{"occured", "occurred"},
	{"seperate", "separate"},
	{"definately", "definitely"},
	{"goverment", "government"},
	{"recomend", "recommend"},
	{"accomodate", "accommodate"},
	{"untill", "until"},
	{"wich", "which"},
	{"wiht", "with"},
})

func buildCorrections(pairs [][2]string) []correction {
	out := make([]correction, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, correction{
			re:    regexp.MustCompile(`(?i)\b` + p[0] + `\b`),
			right: p[1],
		})
	}

	return out
}

// Basic fixes a fixed list of common English misspellings. Matches are whole-word and
// case-insensitive; an all-caps or capitalized match keeps its casing.
func Basic(text string) string {
	corrected := text

	for _, c := range corrections {
		corrected = c.re.ReplaceAllStringFunc(corrected, func(match string) string {
			return matchCase(match, c.right)
		})
	}

	return corrected
}

func matchCase(original, replacement string) string {
	if len(original) > 1 && strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}

	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(replacement)

		return string(unicode.ToUpper(r)) + replacement[size:]
	}

	return replacement
}

// Checker proofreads article HTML according to the configured mode.
type Checker struct {
	completer   llm.Completer
	log         *logger.Logger
	mode        string
	temperature float64
	maxTokens   int
}

// NewChecker creates a checker. completer may be nil when mode is not "llm".
func NewChecker(completer llm.Completer, cfg config.LLMConfig, log *logger.Logger) *Checker {
	mode := cfg.Proofread
	if mode == "" {
		mode = config.ProofreadLLM
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Checker{
		completer:   completer,
		log:         log.Component("spellcheck"),
		mode:        mode,
		temperature: cfg.ProofreadTemperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Mode returns the proofreading mode in use.
func (c *Checker) Mode() string {
	return c.mode
}

// Proofread runs the configured correction. In llm mode a failure or an empty answer is
// returned as an error and the caller decides what to keep.
func (c *Checker) Proofread(ctx context.Context, text string) (string, error) {
	switch c.mode {
	case config.ProofreadOff:
		return text, nil
	case config.ProofreadBasic:
		return Basic(text), nil
	}

	if c.completer == nil {
		return "", ErrNoCompleter
	}

	out, err := c.completer.Complete(ctx, llm.Request{
		System:      ProofreadSystemPrompt,
		User:        text,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("proofread: %w", err)
	}

	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResult
	}

	return out, nil
}

// Check is Proofread that never fails: on any error the input comes back unchanged.
func (c *Checker) Check(ctx context.Context, text string) string {
	out, err := c.Proofread(ctx, text)
	if err != nil {
		c.log.Warn("spell check failed, keeping original text", "error", err)

		return text
	}

	return out
}
