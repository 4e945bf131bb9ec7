// Package slug builds URL and file-name friendly identifiers from article titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Generate returns.
const MaxLength = 80

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Generate creates a URL-friendly slug from a string.
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(transliterate(s))

	// Whitespace, underscores and slashes separate words
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '/' {
			return '-'
		}

		return r
	}, s)

	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}

	return s
}

// GenerateWithFallback generates a slug, falling back to a default if the input produces an empty slug.
func GenerateWithFallback(s, fallback string) string {
	if slug := Generate(s); slug != "" {
		return slug
	}

	return Generate(fallback)
}

// MakeUnique appends a counter to a slug; counter 0 leaves it unchanged.
func MakeUnique(slug string, counter int) string {
	if counter == 0 {
		return slug
	}

	return slug + "-" + strconv.Itoa(counter)
}

// transliterate strips diacritics: "ção" becomes "cao".
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)

	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
