package formatter

import (
	"fmt"
	"sort"
	"strconv"

	"seowriter/internal/models"
)

// Report renders an SEO report as two tables: page structure and keyword density.
func Report(r models.SEOReport) string {
	structure := Table([]string{"Metric", "Value"}, [][]string{
		{"Words", strconv.Itoa(r.WordCount)},
		{"H1", strconv.Itoa(r.Headings.H1)},
		{"H2", strconv.Itoa(r.Headings.H2)},
		{"H3", strconv.Itoa(r.Headings.H3)},
		{"Images", strconv.Itoa(r.ImageCount)},
		{"Images with alt", strconv.Itoa(r.ImagesWithAlt)},
		{"Internal links", strconv.Itoa(r.InternalLinks)},
		{"External links", strconv.Itoa(r.ExternalLinks)},
	})

	if len(r.KeywordDensity) == 0 {
		return structure
	}

	keywords := make([]string, 0, len(r.KeywordDensity))
	for k := range r.KeywordDensity {
		keywords = append(keywords, k)
	}

	sort.Strings(keywords)

	rows := make([][]string, 0, len(keywords))
	for _, k := range keywords {
		rows = append(rows, []string{k, fmt.Sprintf("%.2f%%", r.KeywordDensity[k])})
	}

	return structure + "\n" + Table([]string{"Keyword", "Density"}, rows)
}
