// Package affiliate inserts "where to buy" blocks and inline affiliate links into article HTML.
package affiliate

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"seowriter/internal/models"
)

const (
	paragraphClose = "</p>"

	// minParagraphsForSpread is the number of </p> markers from which the block
	// is spread over three positions instead of appended once.
	minParagraphsForSpread = 4

	defaultIcon  = "🛒"
	defaultColor = "bg-blue-600 hover:bg-blue-700"

	inlineClass = "text-blue-600 hover:text-blue-800 font-semibold underline"
)

var platformIcons = map[string]string{
	models.PlatformAmazon:       "🛒",
	models.PlatformMercadoLivre: "🛍️",
	models.PlatformShopee:       "🏪",
	models.PlatformMagalu:       "🏬",
	models.PlatformClickbank:    "💳",
	models.PlatformHotmart:      "🔥",
	models.PlatformEduzz:        "📱",
	models.PlatformKiwify:       "🥝",
	models.PlatformBraip:        "🚀",
}

var buttonColors = map[string]string{
	models.PlatformAmazon:       "bg-yellow-500 hover:bg-yellow-600",
	models.PlatformMercadoLivre: "bg-yellow-400 hover:bg-yellow-500",
	models.PlatformShopee:       "bg-orange-500 hover:bg-orange-600",
	models.PlatformMagalu:       "bg-blue-500 hover:bg-blue-600",
	models.PlatformClickbank:    "bg-green-600 hover:bg-green-700",
	models.PlatformHotmart:      "bg-red-500 hover:bg-red-600",
	models.PlatformEduzz:        "bg-purple-600 hover:bg-purple-700",
	models.PlatformKiwify:       "bg-green-500 hover:bg-green-600",
	models.PlatformBraip:        "bg-indigo-600 hover:bg-indigo-700",
}

// Icon returns the button icon for a platform label.
func Icon(platform string) string {
	if icon, ok := platformIcons[platform]; ok {
		return icon
	}

	return defaultIcon
}

// Color returns the button color classes for a platform label.
func Color(platform string) string {
	if color, ok := buttonColors[platform]; ok {
		return color
	}

	return defaultColor
}

// InsertLinks turns the first bare mention of each platform into a link and then adds
// the "where to buy" block at fixed paragraph positions. Mentions inside the block are
// never linked. It never fails: patterns that do not match are skipped.
func InsertLinks(article string, links []models.AffiliateLink, productName string) string {
	modified := article
	for _, link := range links {
		modified = linkFirstMention(modified, link)
	}

	return insertBlocks(modified, BlockHTML(links, productName))
}

// InsertionPoints returns the paragraph indexes (article split on </p>) that get a block
// right after their closing tag, given the number of pieces the split produced.
// With at least 4 markers: index 2, the midpoint and 3-from-last; indexes may coincide.
// Otherwise nil, and the block goes once at the end.
func InsertionPoints(pieces int) []int {
	if pieces-1 < minParagraphsForSpread {
		return nil
	}

	return []int{2, pieces / 2, pieces - 3}
}

func insertBlocks(article, block string) string {
	if block == "" {
		return article
	}

	pieces := strings.Split(article, paragraphClose)

	points := InsertionPoints(len(pieces))
	if points == nil {
		return article + block
	}

	for _, idx := range points {
		pieces[idx+1] = block + pieces[idx+1]
	}

	return strings.Join(pieces, paragraphClose)
}

// linkFirstMention replaces the first whole-word, case-insensitive occurrence of the
// platform name that sits in bare text: not inside a tag and not inside anchor text.
func linkFirstMention(article string, link models.AffiliateLink) string {
	name := strings.TrimSpace(link.Platform)
	if name == "" {
		return article
	}

	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return article
	}

	for _, loc := range re.FindAllStringIndex(article, -1) {
		rest := article[loc[1]:]
		if insideTag(rest) || insideAnchorText(rest) {
			continue
		}

		return article[:loc[0]] + inlineAnchor(link) + rest
	}

	return article
}

// insideTag reports whether a '>' is reached before any '<', meaning the text just
// consumed belongs to a tag's name or attributes.
func insideTag(rest string) bool {
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return false
	}

	lt := strings.IndexByte(rest, '<')

	return lt < 0 || gt < lt
}

// insideAnchorText reports whether the next markup after the text run is a closing </a>.
func insideAnchorText(rest string) bool {
	i := strings.IndexAny(rest, "<>")
	if i < 0 || rest[i] != '<' {
		return false
	}

	tail := rest[i:]

	return len(tail) >= 4 && strings.EqualFold(tail[:4], "</a>")
}

func inlineAnchor(link models.AffiliateLink) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="nofollow noopener" class="%s">%s</a>`,
		html.EscapeString(link.URL), inlineClass, html.EscapeString(link.Platform))
}

// BlockHTML renders the "where to buy" block. It is empty when there are no links.
func BlockHTML(links []models.AffiliateLink, productName string) string {
	if len(links) == 0 {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, `
    <div class="my-8 p-6 bg-gradient-to-r from-blue-50 to-indigo-50 rounded-xl border-2 border-blue-200 shadow-lg">
      <h3 class="text-2xl font-bold text-gray-800 mb-4 text-center">
        🔥 Onde Comprar - Melhores Ofertas
      </h3>
      <p class="text-center text-gray-600 mb-6">
        Confira as melhores ofertas para %s
      </p>
      <div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-4">
  `, html.EscapeString(productName))

	for _, link := range links {
		fmt.Fprintf(&b, `
        <a href="%s"
           target="_blank"
           rel="nofollow noopener sponsored"
           class="%s text-white font-bold py-4 px-6 rounded-lg text-center transform transition hover:scale-105 shadow-md flex items-center justify-center gap-2">
          <span class="text-2xl">%s</span>
          <span>Ver em %s</span>
        </a>
    `, html.EscapeString(link.URL), Color(link.Platform), Icon(link.Platform), html.EscapeString(link.Platform))
	}

	b.WriteString(`
      </div>
      <p class="text-xs text-gray-500 text-center mt-4">
        * Links de afiliado - Ao comprar através destes links, você apoia nosso trabalho sem pagar nada a mais por isso.
      </p>
    </div>
  `)

	return b.String()
}

// Disclosure returns the affiliate disclosure notice shown near the top of an article.
func Disclosure() string {
	return `
    <div class="my-6 p-4 bg-yellow-50 border-l-4 border-yellow-400 rounded">
      <p class="text-sm text-gray-700">
        <strong>Aviso:</strong> Este artigo contém links de afiliado. Isso significa que podemos receber uma comissão
        se você realizar uma compra através dos nossos links, sem custo adicional para você. Recomendamos apenas
        produtos e serviços que acreditamos serem valiosos para nossos leitores.
      </p>
    </div>
  `
}
