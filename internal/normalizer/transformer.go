package normalizer

import (
	"strings"

	"seowriter/internal/models"
)

// Transformer handles data format transformations.
type Transformer struct {
	platforms map[string]string
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	platforms := make(map[string]string, len(models.Platforms))
	for _, p := range models.Platforms {
		platforms[strings.ToLower(p)] = p
	}

	return &Transformer{platforms: platforms}
}

// Transform converts validated input into a generation request.
func (t *Transformer) Transform(in *Input) models.GenerationRequest {
	articleType := models.ArticleType(strings.ToLower(strings.TrimSpace(in.Type)))
	if articleType == "" {
		articleType = models.ArticleGeneral
	}

	req := models.GenerationRequest{
		Type:           articleType,
		Topic:          strings.TrimSpace(in.Topic),
		ProductURL:     strings.TrimSpace(in.ProductURL),
		Keywords:       SplitKeywords(in.Keywords),
		GeoLocation:    strings.TrimSpace(in.GeoLocation),
		CustomReviews:  strings.TrimSpace(in.CustomReviews),
		GenerateImages: in.GenerateImages,
	}

	for _, pair := range in.Affiliates {
		platform, link, ok := splitAffiliate(pair)
		if !ok {
			continue
		}

		req.AffiliateLinks = append(req.AffiliateLinks, models.AffiliateLink{
			Platform: t.CanonicalPlatform(platform),
			URL:      link,
		})
	}

	return req
}

// CanonicalPlatform maps a known platform name to its display label regardless of case.
// Unknown names are returned trimmed.
func (t *Transformer) CanonicalPlatform(name string) string {
	name = strings.TrimSpace(name)
	if label, ok := t.platforms[strings.ToLower(name)]; ok {
		return label
	}

	return name
}

// SplitKeywords splits a comma-separated list, trimming entries and dropping blanks.
func SplitKeywords(raw string) []string {
	keywords := []string{}

	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return keywords
}

// splitAffiliate parses "Platform=URL". The URL may itself contain '='.
func splitAffiliate(pair string) (string, string, bool) {
	platform, link, found := strings.Cut(pair, "=")
	platform = strings.TrimSpace(platform)
	link = strings.TrimSpace(link)

	if !found || platform == "" || link == "" {
		return "", "", false
	}

	return platform, link, true
}
