package seo

import (
	"regexp"

	"seowriter/internal/models"
)

var (
	h1OpenRe       = regexp.MustCompile(`<h1`)
	h2OpenRe       = regexp.MustCompile(`<h2`)
	h3OpenRe       = regexp.MustCompile(`<h3`)
	imgOpenRe      = regexp.MustCompile(`<img`)
	imgWithAltRe   = regexp.MustCompile(`<img[^>]+alt=`)
	internalLinkRe = regexp.MustCompile(`<a[^>]+href=["']/[^"']*["']`)
	externalLinkRe = regexp.MustCompile(`<a[^>]+href=["']https?://`)
)

// Report recomputes word count, keyword density, heading, image and link counts from the
// final HTML. Density is occurrences per hundred words.
func Report(article string, keywords []string) models.SEOReport {
	words := CountWords(article)

	density := make(map[string]float64, len(keywords))
	for _, keyword := range keywords {
		n := CountKeyword(article, keyword)
		if n == 0 || words == 0 {
			density[keyword] = 0

			continue
		}

		density[keyword] = float64(n) / float64(words) * 100
	}

	return models.SEOReport{
		WordCount:      words,
		KeywordDensity: density,
		Headings: models.HeadingCount{
			H1: count(h1OpenRe, article),
			H2: count(h2OpenRe, article),
			H3: count(h3OpenRe, article),
		},
		ImageCount:    count(imgOpenRe, article),
		ImagesWithAlt: count(imgWithAltRe, article),
		InternalLinks: count(internalLinkRe, article),
		ExternalLinks: count(externalLinkRe, article),
	}
}

func count(re *regexp.Regexp, s string) int {
	return len(re.FindAllStringIndex(s, -1))
}
