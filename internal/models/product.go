package models

// Default values substituted for fields a product page did not provide.
const (
	DefaultProductName        = "Product"
	DefaultProductDescription = "No description available"
	DefaultProductPrice       = "Price not available"

	FallbackProductDescription = "Unable to fetch product details automatically. Please verify the product URL."
	FallbackProductPrice       = "N/A"
)

// ProductInfo is the product context scraped from a store page.
type ProductInfo struct {
	Specifications map[string]string `json:"specifications"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          string            `json:"price"`
	Rating         string            `json:"rating,omitempty"`
	ReviewCount    string            `json:"reviewCount,omitempty"`
	Features       []string          `json:"features"`
	Images         []string          `json:"images"`
}

// NewProductInfo returns an empty record with non-nil collections.
func NewProductInfo() ProductInfo {
	return ProductInfo{
		Specifications: map[string]string{},
		Features:       []string{},
		Images:         []string{},
	}
}

// FallbackProductInfo is returned when a product page cannot be fetched or parsed.
func FallbackProductInfo() ProductInfo {
	p := NewProductInfo()
	p.Name = DefaultProductName
	p.Description = FallbackProductDescription
	p.Price = FallbackProductPrice

	return p
}

// ApplyDefaults fills empty name, description and price.
func (p *ProductInfo) ApplyDefaults() {
	if p.Name == "" {
		p.Name = DefaultProductName
	}

	if p.Description == "" {
		p.Description = DefaultProductDescription
	}

	if p.Price == "" {
		p.Price = DefaultProductPrice
	}

	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	}

	if p.Features == nil {
		p.Features = []string{}
	}

	if p.Images == nil {
		p.Images = []string{}
	}
}
