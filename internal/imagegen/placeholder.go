// Package imagegen turns [IMAGE: description] placeholders in article HTML into images,
// generated by an image API or replaced by styled fallback blocks.
package imagegen

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	placeholderBase   = "https://source.unsplash.com/1024x768/?"
	placeholderPrefix = 50

	imageClass = "w-full h-auto rounded-lg shadow-lg my-4"
	blockClass = "bg-gray-200 p-8 rounded-lg my-4 text-center text-gray-600"
)

// PlaceholderRe matches an image placeholder and captures its description.
var PlaceholderRe = regexp.MustCompile(`\[IMAGE: ([^\]]+)\]`)

// Placeholder is one [IMAGE: ...] occurrence.
type Placeholder struct {
	Description string
	Start       int
	End         int
}

// Find returns every placeholder in document order.
func Find(article string) []Placeholder {
	matches := PlaceholderRe.FindAllStringSubmatchIndex(article, -1)

	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		out = append(out, Placeholder{
			Description: article[m[2]:m[3]],
			Start:       m[0],
			End:         m[1],
		})
	}

	return out
}

// ImageHTML renders a generated image.
func ImageHTML(url, description string) string {
	return fmt.Sprintf(`<img src="%s" alt="%s" class="%s" />`, attrEscape(url), attrEscape(description), imageClass)
}

// BlockHTML renders the styled block used when no image is available.
func BlockHTML(description string) string {
	return fmt.Sprintf(`<div class="%s">[Image: %s]</div>`, blockClass, description)
}

// ReplaceAllWithBlocks replaces every placeholder with a fallback block.
func ReplaceAllWithBlocks(article string) string {
	return PlaceholderRe.ReplaceAllStringFunc(article, func(match string) string {
		return BlockHTML(PlaceholderRe.FindStringSubmatch(match)[1])
	})
}

// PlaceholderURL returns a deterministic stock-photo URL built from the first 50
// characters of the prompt.
func PlaceholderURL(prompt string) string {
	r := []rune(prompt)
	if len(r) > placeholderPrefix {
		r = r[:placeholderPrefix]
	}

	return placeholderBase + encodeURIComponent(string(r))
}

// encodeURIComponent percent-encodes everything except letters, digits and -_.!~*'().
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)

			continue
		}

		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func attrEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
