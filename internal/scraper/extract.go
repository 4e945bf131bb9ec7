package scraper

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"seowriter/internal/models"
)

// ExtractFunc pulls product fields out of a parsed store page.
type ExtractFunc func(doc *goquery.Document) models.ProductInfo

type domainExtractor struct {
	name    string
	markers []string
	extract ExtractFunc
}

// Registry maps host names to extractors. Hosts are matched by substring, in
// registration order; the generic extractor handles everything else.
type Registry struct {
	extractors []domainExtractor
	generic    ExtractFunc
}

// NewRegistry returns the registry with the built-in store extractors.
func NewRegistry() *Registry {
	r := &Registry{generic: extractGeneric}
	r.Register("amazon", extractAmazon, "amazon")
	r.Register("mercadolivre", extractMercadoLivre, "mercadolivre", "mercadolibre")
	r.Register("shopee", extractShopee, "shopee")
	r.Register("magalu", extractMagalu, "magazineluiza")

	return r
}

// Register adds an extractor for hosts containing any of the markers.
func (r *Registry) Register(name string, fn ExtractFunc, markers ...string) {
	r.extractors = append(r.extractors, domainExtractor{name: name, markers: markers, extract: fn})
}

// Lookup returns the extractor name and function for host.
func (r *Registry) Lookup(host string) (string, ExtractFunc) {
	host = strings.ToLower(host)

	for _, e := range r.extractors {
		for _, m := range e.markers {
			if strings.Contains(host, m) {
				return e.name, e.extract
			}
		}
	}

	return "generic", r.generic
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips any markup left in extracted text and trims it.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func text(doc *goquery.Document, selector string) string {
	return cleanText(doc.Find(selector).Text())
}

func firstText(doc *goquery.Document, selector string) string {
	return cleanText(doc.Find(selector).First().Text())
}

func texts(doc *goquery.Document, selector string) []string {
	out := []string{}

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, cleanText(s.Text()))
	})

	return out
}

func attrs(doc *goquery.Document, selector, attr string) []string {
	out := []string{}

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(attr)
		out = append(out, v)
	})

	return out
}

func orElse(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func specTable(doc *goquery.Document, rows, keySel, valueSel string, into map[string]string) {
	doc.Find(rows).Each(func(_ int, s *goquery.Selection) {
		key := cleanText(s.Find(keySel).Text())
		value := cleanText(s.Find(valueSel).Text())

		if key != "" && value != "" {
			into[key] = value
		}
	})
}

func extractAmazon(doc *goquery.Document) models.ProductInfo {
	p := models.NewProductInfo()
	p.Name = orElse(text(doc, "#productTitle"), text(doc, "h1.a-size-large"))
	p.Description = strings.Join(texts(doc, "#feature-bullets ul li"), ". ")
	p.Price = orElse(firstText(doc, ".a-price .a-offscreen"), firstText(doc, ".a-price-whole"))
	p.Features = texts(doc, "#feature-bullets ul li span.a-list-item")
	p.Rating = firstText(doc, "span.a-icon-alt")
	p.ReviewCount = firstText(doc, "#acrCustomerReviewText")

	specTable(doc, "#productDetails_techSpec_section_1 tr, #productDetails_detailBullets_sections1 tr", "th", "td", p.Specifications)

	p.Images = attrs(doc, "#altImages ul li img", "src")

	return p
}

func extractMercadoLivre(doc *goquery.Document) models.ProductInfo {
	p := models.NewProductInfo()
	p.Name = text(doc, ".ui-pdp-title")
	p.Description = text(doc, ".ui-pdp-description__content")
	p.Price = firstText(doc, ".andes-money-amount__fraction")
	p.Features = texts(doc, ".ui-pdp-highlights__list li")
	p.Rating = text(doc, ".ui-pdp-review__rating")

	specTable(doc, ".andes-table tbody tr", ".andes-table__column--left", ".andes-table__column--right", p.Specifications)

	return p
}

func extractShopee(doc *goquery.Document) models.ProductInfo {
	p := models.NewProductInfo()
	p.Name = orElse(text(doc, "._3STPwE"), firstText(doc, `span[class*="title"]`))
	p.Description = text(doc, "._2aZyWI")
	p.Price = text(doc, "._3n5NQx")
	p.Rating = text(doc, "._3y5XOB")

	return p
}

func extractMagalu(doc *goquery.Document) models.ProductInfo {
	p := models.NewProductInfo()
	p.Name = text(doc, `h1[data-testid="heading-product-title"]`)
	p.Description = text(doc, ".description__container-text")
	p.Price = text(doc, `[data-testid="price-value"]`)
	p.Features = texts(doc, ".description__list-item")

	return p
}

var genericPriceSelectors = []string{".price", `[class*="price"]`, "[data-price]", ".product-price"}

func extractGeneric(doc *goquery.Document) models.ProductInfo {
	p := models.NewProductInfo()
	p.Name = orElse(firstText(doc, "h1"), text(doc, "title"))

	metaDesc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	ogDesc, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	p.Description = orElse(cleanText(metaDesc), cleanText(ogDesc), firstText(doc, "p"))

	for _, selector := range genericPriceSelectors {
		if price := firstText(doc, selector); price != "" {
			p.Price = price

			break
		}
	}

	p.Images = attrs(doc, `img[src*="product"], img[class*="product"]`, "src")

	return p
}
