// Package models defines data structures shared by the generator, the scraper and the post-processing stages.
package models

import "time"

// ArticleType selects the kind of article requested from the language model.
type ArticleType string

// Article types.
const (
	ArticleGeneral ArticleType = "general"
	ArticleReview  ArticleType = "review"
)

// GenerationRequest carries everything needed to produce one article.
type GenerationRequest struct {
	Type           ArticleType     `json:"articleType" yaml:"article_type"`
	Topic          string          `json:"topic" yaml:"topic"`
	ProductURL     string          `json:"productUrl,omitempty" yaml:"product_url"`
	Keywords       []string        `json:"keywords" yaml:"keywords"`
	GeoLocation    string          `json:"geoLocation,omitempty" yaml:"geo_location"`
	AffiliateLinks []AffiliateLink `json:"affiliateLinks,omitempty" yaml:"affiliate_links"`
	CustomReviews  string          `json:"customReviews,omitempty" yaml:"custom_reviews"`
	GenerateImages bool            `json:"generateImages" yaml:"generate_images"`
}

// IsReview reports whether the request asks for a product review.
func (r *GenerationRequest) IsReview() bool {
	return r.Type == ArticleReview
}

// Article is a generated, post-processed article ready to publish.
type Article struct {
	CreatedAt time.Time    `json:"createdAt"`
	ID        string       `json:"id"`
	Topic     string       `json:"topic"`
	Slug      string       `json:"slug"`
	HTML      string       `json:"html"`
	Product   *ProductInfo `json:"product,omitempty"`
	Report    SEOReport    `json:"report"`
}
