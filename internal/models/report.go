package models

// HeadingCount counts opening heading tags by level.
type HeadingCount struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}

// SEOReport summarizes an article for diagnostics. It never feeds back into the article.
type SEOReport struct {
	KeywordDensity map[string]float64 `json:"keywordDensity"`
	Headings       HeadingCount       `json:"headingCount"`
	WordCount      int                `json:"wordCount"`
	ImageCount     int                `json:"imageCount"`
	ImagesWithAlt  int                `json:"imagesWithAlt"`
	InternalLinks  int                `json:"internalLinks"`
	ExternalLinks  int                `json:"externalLinks"`
}
