package models

// Known affiliate platform labels.
const (
	PlatformAmazon       = "Amazon"
	PlatformMercadoLivre = "Mercado Livre"
	PlatformShopee       = "Shopee"
	PlatformMagalu       = "Magalu"
	PlatformClickbank    = "Clickbank"
	PlatformHotmart      = "Hotmart"
	PlatformEduzz        = "Eduzz"
	PlatformKiwify       = "Kiwify"
	PlatformBraip        = "Braip"
)

// Platforms lists the labels offered to users, in display order.
var Platforms = []string{
	PlatformAmazon,
	PlatformMercadoLivre,
	PlatformShopee,
	PlatformMagalu,
	PlatformClickbank,
	PlatformHotmart,
	PlatformEduzz,
	PlatformKiwify,
	PlatformBraip,
}

// AffiliateLink points a platform label at an affiliate URL.
// Neither field is validated.
type AffiliateLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}
