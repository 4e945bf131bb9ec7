// Package seo annotates generated article HTML with meta tags, structured data and
// reading-time information, and reports simple on-page statistics.
package seo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"seowriter/internal/logger"
)

const (
	metaExcerptLength   = 155
	defaultAltText      = "relevant keyword"
	minKeywordInstances = 2

	metaMarker       = "<!-- SEO Meta Tags -->"
	schemaMarker     = `<script type="application/ld+json">`
	linkingMarker    = "<!-- Internal Linking Suggestions:"
	readingTimeLabel = "Tempo de leitura:"

	isoMillis = "2006-01-02T15:04:05.000Z"
)

var (
	firstParagraphRe = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	tagRe            = regexp.MustCompile(`<[^>]+>`)
	h2Re             = regexp.MustCompile(`<h2([^>]*)>(.*?)</h2>`)
	h1BlockRe        = regexp.MustCompile(`(?s)<h1[^>]*>.*?</h1>`)
	imgTagRe         = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	altAttrRe        = regexp.MustCompile(`(?i)\salt\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Options configures the site identity and guard behavior of an Optimizer.
type Options struct {
	Now            func() time.Time
	SiteName       string
	CanonicalURL   string
	LogoURL        string
	Author         string
	WordsPerMinute int
	// GuardRepeats makes every stage skip itself when its output is already present,
	// so Optimize becomes idempotent. Off by default: only the meta stage is guarded.
	GuardRepeats bool
}

// DefaultOptions returns placeholder site identity values.
func DefaultOptions() Options {
	return Options{
		Now:            time.Now,
		SiteName:       "Your Site Name",
		CanonicalURL:   "https://yourdomain.com/article-url",
		LogoURL:        "https://yourdomain.com/logo.png",
		Author:         "AI Content Generator",
		WordsPerMinute: 200,
	}
}

// Optimizer applies the fixed chain of SEO rewrites.
type Optimizer struct {
	opts Options
	log  *logger.Logger
}

// New creates an optimizer. Zero-valued options fall back to DefaultOptions.
func New(opts Options, log *logger.Logger) *Optimizer {
	def := DefaultOptions()

	if opts.Now == nil {
		opts.Now = def.Now
	}

	if opts.SiteName == "" {
		opts.SiteName = def.SiteName
	}

	if opts.CanonicalURL == "" {
		opts.CanonicalURL = def.CanonicalURL
	}

	if opts.LogoURL == "" {
		opts.LogoURL = def.LogoURL
	}

	if opts.Author == "" {
		opts.Author = def.Author
	}

	if opts.WordsPerMinute < 1 {
		opts.WordsPerMinute = def.WordsPerMinute
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Optimizer{opts: opts, log: log.Component("seo")}
}

// Optimize runs every stage in order and returns the rewritten article.
// Without GuardRepeats, calling it twice appends a second schema block, linking comment
// and reading-time badge; the meta block is only ever added once.
func (o *Optimizer) Optimize(article string, keywords []string, topic, geo string) string {
	optimized := article

	if !strings.Contains(article, "<meta") && !strings.Contains(article, "<!-- SEO") {
		optimized = o.MetaTags(article, keywords, topic, geo) + "\n\n" + optimized
	}

	if !o.skip(optimized, schemaMarker) {
		optimized = optimized + "\n\n" + o.SchemaMarkup(topic, geo)
	}

	optimized = PromoteHeading(optimized, keywords)

	if !o.skip(optimized, linkingMarker) {
		optimized = AddInternalLinkingComment(optimized)
	}

	optimized = o.addKeywordNotes(optimized, keywords)
	optimized = FillImageAltText(optimized, keywords)

	if !o.skip(optimized, readingTimeLabel) {
		optimized = o.AddReadingTime(optimized)
	}

	o.log.Debug("article optimized", "topic", topic, "keywords", len(keywords),
		"bytes_in", len(article), "bytes_out", len(optimized))

	return optimized
}

func (o *Optimizer) skip(article, marker string) bool {
	return o.opts.GuardRepeats && strings.Contains(article, marker)
}

// MetaTags builds the meta/OpenGraph/Twitter block from the first paragraph excerpt.
func (o *Optimizer) MetaTags(article string, keywords []string, topic, geo string) string {
	excerpt := topic
	if m := firstParagraphRe.FindStringSubmatch(article); m != nil {
		excerpt = truncateRunes(StripTags(m[1]), metaExcerptLength)
	}

	description := excerpt + "..."
	if geo != "" {
		description += " Informações para " + geo + "."
	}

	desc := attrEscape(description)
	kw := strings.Join(keywords, ", ")

	lines := []string{
		metaMarker,
		"<!--",
		"  Title: " + topic,
		"  Meta Description: " + description,
		"  Keywords: " + kw,
	}

	if geo != "" {
		lines = append(lines, "  Geo-Target: "+geo)
	}

	lines = append(lines,
		"-->",
		fmt.Sprintf(`<meta name="description" content="%s" />`, desc),
		fmt.Sprintf(`<meta name="keywords" content="%s" />`, attrEscape(kw)),
		fmt.Sprintf(`<meta property="og:title" content="%s" />`, attrEscape(topic)),
		fmt.Sprintf(`<meta property="og:description" content="%s" />`, desc),
		`<meta property="og:type" content="article" />`,
		`<meta name="twitter:card" content="summary_large_image" />`,
		fmt.Sprintf(`<meta name="twitter:title" content="%s" />`, attrEscape(topic)),
		fmt.Sprintf(`<meta name="twitter:description" content="%s" />`, desc),
	)

	if geo != "" {
		lines = append(lines, fmt.Sprintf(`<meta name="geo.region" content="%s" />`, attrEscape(geo)))
	}

	lines = append(lines,
		`<meta name="robots" content="index, follow" />`,
		fmt.Sprintf(`<link rel="canonical" href="%s" />`, attrEscape(o.opts.CanonicalURL)),
	)

	return strings.Join(lines, "\n")
}

type schemaThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type schemaPublisher struct {
	Type string      `json:"@type"`
	Name string      `json:"name"`
	Logo schemaThing `json:"logo"`
}

type schemaArticle struct {
	ContentLocation  *schemaThing    `json:"contentLocation,omitempty"`
	Context          string          `json:"@context"`
	Type             string          `json:"@type"`
	Headline         string          `json:"headline"`
	DatePublished    string          `json:"datePublished"`
	DateModified     string          `json:"dateModified"`
	Author           schemaThing     `json:"author"`
	Publisher        schemaPublisher `json:"publisher"`
	Description      string          `json:"description"`
	MainEntityOfPage schemaThing     `json:"mainEntityOfPage"`
}

// SchemaMarkup renders the JSON-LD Article block. Both dates are the current time.
func (o *Optimizer) SchemaMarkup(topic, geo string) string {
	now := o.opts.Now().UTC().Format(isoMillis)

	doc := schemaArticle{
		Context:       "https://schema.org",
		Type:          "Article",
		Headline:      topic,
		DatePublished: now,
		DateModified:  now,
		Author:        schemaThing{Type: "Person", Name: o.opts.Author},
		Publisher: schemaPublisher{
			Type: "Organization",
			Name: o.opts.SiteName,
			Logo: schemaThing{Type: "ImageObject", URL: o.opts.LogoURL},
		},
		Description:      "Comprehensive article about " + topic,
		MainEntityOfPage: schemaThing{Type: "WebPage", ID: o.opts.CanonicalURL},
	}

	if geo != "" {
		doc.ContentLocation = &schemaThing{Type: "Place", Name: geo}
	}

	// Marshal cannot fail for this plain struct.
	body, _ := json.MarshalIndent(doc, "", "  ")

	return "\n<!-- Schema.org Structured Data for SEO -->\n" + schemaMarker + "\n" + string(body) + "\n</script>"
}

// PromoteHeading turns the first <h2> into an <h1> when the article has no <h1> and
// keywords were supplied.
func PromoteHeading(article string, keywords []string) string {
	if strings.Contains(article, "<h1") || len(keywords) == 0 {
		return article
	}

	loc := h2Re.FindStringSubmatchIndex(article)
	if loc == nil {
		return article
	}

	attrs := article[loc[2]:loc[3]]
	inner := article[loc[4]:loc[5]]

	return article[:loc[0]] + "<h1" + attrs + ">" + inner + "</h1>" + article[loc[1]:]
}

// AddInternalLinkingComment appends generic internal-linking suggestions.
func AddInternalLinkingComment(article string) string {
	return article + "\n\n" + linkingMarker + `
- Link to related articles about similar topics
- Add contextual links to category pages
- Include navigation to main topic hub
- Cross-reference other product reviews if applicable
-->`
}

// KeywordNote is the advisory comment appended for an under-used keyword.
func KeywordNote(keyword string) string {
	return fmt.Sprintf("\n<!-- SEO Note: Consider adding more instances of %q naturally throughout the content -->", keyword)
}

func (o *Optimizer) addKeywordNotes(article string, keywords []string) string {
	modified := article

	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}

		if CountKeyword(article, keyword) >= minKeywordInstances {
			continue
		}

		note := KeywordNote(keyword)
		if o.skip(modified, note) {
			continue
		}

		modified += note
	}

	return modified
}

// CountKeyword counts case-insensitive, literal occurrences of keyword anywhere in the text.
func CountKeyword(article, keyword string) int {
	if keyword == "" {
		return 0
	}

	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword))

	return len(re.FindAllStringIndex(article, -1))
}

// FillImageAltText gives every <img> without a non-blank alt the first keyword as alt text.
func FillImageAltText(article string, keywords []string) string {
	suggestion := defaultAltText
	if len(keywords) > 0 && keywords[0] != "" {
		suggestion = keywords[0]
	}

	alt := fmt.Sprintf(` alt="%s"`, attrEscape(suggestion))

	return imgTagRe.ReplaceAllStringFunc(article, func(tag string) string {
		loc := altAttrRe.FindStringSubmatchIndex(tag)
		if loc == nil {
			return tag[:len("<img")] + alt + tag[len("<img"):]
		}

		value := ""
		if loc[2] >= 0 {
			value = tag[loc[2]:loc[3]]
		} else if loc[4] >= 0 {
			value = tag[loc[4]:loc[5]]
		}

		if strings.TrimSpace(value) != "" {
			return tag
		}

		return tag[:loc[0]] + alt + tag[loc[1]:]
	})
}

// AddReadingTime inserts the reading-time badge after the first <h1> block, or at the top.
func (o *Optimizer) AddReadingTime(article string) string {
	words := CountWords(article)
	badge := ReadingTimeBadge(ReadingMinutes(words, o.opts.WordsPerMinute), words)

	if loc := h1BlockRe.FindStringIndex(article); loc != nil {
		return article[:loc[1]] + "\n" + badge + article[loc[1]:]
	}

	return badge + "\n" + article
}

// ReadingTimeBadge renders the badge for the given minutes and word count.
func ReadingTimeBadge(minutes, words int) string {
	unit := "minutos"
	if minutes == 1 {
		unit = "minuto"
	}

	return fmt.Sprintf(`
<div class="flex items-center gap-2 text-gray-600 text-sm mb-6">
  <svg class="w-5 h-5" fill="none" stroke="currentColor" viewBox="0 0 24 24">
    <path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 8v4l3 3m6-3a9 9 0 11-18 0 9 9 0 0118 0z"></path>
  </svg>
  <span>%s %d %s</span>
  <span class="mx-2">•</span>
  <span>%d palavras</span>
</div>`, readingTimeLabel, minutes, unit, words)
}

// StripTags removes anything that looks like a tag.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// CountWords counts whitespace-separated tokens after stripping tags.
func CountWords(article string) int {
	return len(strings.Fields(StripTags(article)))
}

// ReadingMinutes returns ceil(words / wordsPerMinute).
func ReadingMinutes(words, wordsPerMinute int) int {
	if wordsPerMinute < 1 {
		wordsPerMinute = 200
	}

	return (words + wordsPerMinute - 1) / wordsPerMinute
}

func attrEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
