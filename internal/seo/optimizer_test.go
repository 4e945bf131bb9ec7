package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestOptimizer(guard bool) *Optimizer {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	opts.GuardRepeats = guard

	return New(opts, nil)
}

const sampleArticle = `<h2 class="title">Melhor fone bluetooth</h2>
<p>O <strong>fone bluetooth</strong> ideal para "treinar" e trabalhar.</p>
<img src="/a.jpg">
<p>Segundo parágrafo.</p>`

func TestMetaTags(t *testing.T) {
	o := newTestOptimizer(false)

	meta := o.MetaTags(sampleArticle, []string{"fone bluetooth", "fone"}, "Review do fone", "Brasil")

	assert.True(t, strings.HasPrefix(meta, metaMarker))
	assert.Contains(t, meta, "  Title: Review do fone")
	assert.Contains(t, meta, "  Keywords: fone bluetooth, fone")
	assert.Contains(t, meta, "  Geo-Target: Brasil")
	assert.Contains(t, meta,
		`<meta name="description" content="O fone bluetooth ideal para &quot;treinar&quot; e trabalhar.... Informações para Brasil." />`)
	assert.Contains(t, meta, `<meta name="geo.region" content="Brasil" />`)
	assert.Contains(t, meta, `<link rel="canonical" href="https://yourdomain.com/article-url" />`)
}

func TestMetaTags_NoParagraphUsesTopicAndNoGeoLines(t *testing.T) {
	o := newTestOptimizer(false)

	meta := o.MetaTags("<h2>x</h2>", nil, "Só o tópico", "")

	assert.Contains(t, meta, `<meta name="description" content="Só o tópico..." />`)
	assert.NotContains(t, meta, "Geo-Target")
	assert.NotContains(t, meta, "geo.region")
}

func TestMetaTags_ExcerptIsTruncated(t *testing.T) {
	o := newTestOptimizer(false)
	long := strings.Repeat("é", 300)

	meta := o.MetaTags("<p>"+long+"</p>", nil, "t", "")

	assert.Contains(t, meta, `content="`+strings.Repeat("é", metaExcerptLength)+`..."`)
}

func TestOptimize_MetaGuardedByExistingMarkers(t *testing.T) {
	o := newTestOptimizer(false)

	for _, article := range []string{
		`<meta charset="utf-8"><p>x</p>`,
		"<!-- SEO: written by hand --><p>x</p>",
	} {
		out := o.Optimize(article, []string{"x"}, "Topic", "")
		assert.NotContains(t, out, metaMarker)
	}
}

func TestOptimize_RepeatedCallsAreNotIdempotentByDefault(t *testing.T) {
	o := newTestOptimizer(false)
	keywords := []string{"fone bluetooth"}

	once := o.Optimize(sampleArticle, keywords, "Review do fone", "")
	twice := o.Optimize(once, keywords, "Review do fone", "")

	assert.Equal(t, 1, strings.Count(twice, metaMarker), "meta stage is guarded")
	assert.Equal(t, 2, strings.Count(twice, schemaMarker), "schema stage re-appends")
	assert.Equal(t, 2, strings.Count(twice, linkingMarker), "linking comment re-appends")
	assert.Equal(t, 2, strings.Count(twice, readingTimeLabel), "badge re-inserts")
}

func TestOptimize_GuardRepeatsIsIdempotent(t *testing.T) {
	o := newTestOptimizer(true)
	keywords := []string{"fone bluetooth", "raro"}

	once := o.Optimize(sampleArticle, keywords, "Review do fone", "Brasil")
	twice := o.Optimize(once, keywords, "Review do fone", "Brasil")

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(once, schemaMarker))
}

func TestOptimize_StageOrder(t *testing.T) {
	o := newTestOptimizer(false)

	out := o.Optimize(sampleArticle, []string{"fone bluetooth"}, "Review do fone", "")

	require.True(t, strings.HasPrefix(out, metaMarker))
	assert.Contains(t, out, `<h1 class="title">Melhor fone bluetooth</h1>`+"\n\n"+`<div class="flex items-center`)
	assert.Contains(t, out, `<img alt="fone bluetooth" src="/a.jpg">`)
	assert.Less(t, strings.Index(out, schemaMarker), strings.Index(out, linkingMarker))
}

func TestSchemaMarkup(t *testing.T) {
	o := newTestOptimizer(false)

	block := o.SchemaMarkup(`Fone "Pro" 2026`, "Lisboa")

	start := strings.Index(block, schemaMarker)
	end := strings.LastIndex(block, "</script>")
	require.True(t, start >= 0 && end > start)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(block[start+len(schemaMarker):end]), &doc))

	assert.Equal(t, "Article", doc["@type"])
	assert.Equal(t, `Fone "Pro" 2026`, doc["headline"])
	assert.Equal(t, "2026-10-18T12:00:00.000Z", doc["datePublished"])
	assert.Equal(t, doc["datePublished"], doc["dateModified"])
	assert.Equal(t, "Your Site Name", doc["publisher"].(map[string]any)["name"])
	assert.Equal(t, "AI Content Generator", doc["author"].(map[string]any)["name"])
	assert.Equal(t, "Lisboa", doc["contentLocation"].(map[string]any)["name"])

	noGeo := o.SchemaMarkup("t", "")
	assert.NotContains(t, noGeo, "contentLocation")
}

func TestPromoteHeading(t *testing.T) {
	tests := []struct {
		name     string
		article  string
		keywords []string
		want     string
	}{
		{
			name:     "first h2 promoted",
			article:  `<h2 class="a">One</h2><h2>Two</h2>`,
			keywords: []string{"k"},
			want:     `<h1 class="a">One</h1><h2>Two</h2>`,
		},
		{
			name:     "existing h1",
			article:  `<h1>Top</h1><h2>One</h2>`,
			keywords: []string{"k"},
			want:     `<h1>Top</h1><h2>One</h2>`,
		},
		{
			name:     "no keywords",
			article:  `<h2>One</h2>`,
			keywords: nil,
			want:     `<h2>One</h2>`,
		},
		{
			name:     "no h2",
			article:  `<p>text</p>`,
			keywords: []string{"k"},
			want:     `<p>text</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PromoteHeading(tt.article, tt.keywords))
		})
	}
}

func TestKeywordNotes(t *testing.T) {
	o := newTestOptimizer(false)
	article := "<p>Cafeteira boa. CAFETEIRA barata. Moedor uma vez.</p>"

	out := o.addKeywordNotes(article, []string{"cafeteira", "moedor", "", "filtro"})

	assert.NotContains(t, out, KeywordNote("cafeteira"))
	assert.Contains(t, out, KeywordNote("moedor"))
	assert.Contains(t, out, KeywordNote("filtro"))
	assert.Equal(t, 2, strings.Count(out, "SEO Note"))
}

func TestCountKeyword_LiteralMatch(t *testing.T) {
	assert.Equal(t, 0, CountKeyword("abc", "a.c+"))
	assert.Equal(t, 1, CountKeyword("x a.c+ y", "a.c+"))
	assert.Equal(t, 0, CountKeyword("anything", ""))
}

func TestFillImageAltText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		keywords []string
		want     string
	}{
		{"missing alt", `<img src="a.jpg">`, []string{"café"}, `<img alt="café" src="a.jpg">`},
		{"self closing uppercase", `<IMG SRC="a.jpg" />`, []string{"k"}, `<IMG alt="k" SRC="a.jpg" />`},
		{"empty alt replaced", `<img src="a.jpg" alt="">`, []string{"k"}, `<img src="a.jpg" alt="k">`},
		{"blank single quoted alt", `<img alt='  ' src="a.jpg">`, []string{"k"}, `<img alt="k" src="a.jpg">`},
		{"existing alt kept", `<img src="a.jpg" alt="Foto">`, []string{"k"}, `<img src="a.jpg" alt="Foto">`},
		{"default suggestion", `<img src="a.jpg">`, nil, `<img alt="relevant keyword" src="a.jpg">`},
		{"quote in keyword", `<img src="a.jpg">`, []string{`12" tela`}, `<img alt="12&quot; tela" src="a.jpg">`},
		{"not an image", `<imgx src="a">`, []string{"k"}, `<imgx src="a">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FillImageAltText(tt.in, tt.keywords))
		})
	}
}

func TestAddReadingTime(t *testing.T) {
	o := newTestOptimizer(false)

	t.Run("400 words without h1", func(t *testing.T) {
		body := strings.TrimSpace(strings.Repeat("palavra ", 400))

		out := o.AddReadingTime(body)

		assert.True(t, strings.HasPrefix(out, "\n<div"))
		assert.True(t, strings.HasSuffix(out, "\n"+body))
		assert.Contains(t, out, "Tempo de leitura: 2 minutos")
		assert.Contains(t, out, "400 palavras")
	})

	t.Run("after first h1", func(t *testing.T) {
		out := o.AddReadingTime("<h1>Title</h1>\n<p>one two three</p>\n<h1>Other</h1>")

		assert.True(t, strings.HasPrefix(out, "<h1>Title</h1>\n\n<div"))
		assert.Contains(t, out, "Tempo de leitura: 1 minuto<")
		assert.Contains(t, out, "5 palavras")
		assert.Equal(t, 1, strings.Count(out, readingTimeLabel))
	})
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct{ words, want int }{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingMinutes(tt.words, 200), "words=%d", tt.words)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("<br/> \n\t"))
	assert.Equal(t, 4, CountWords("\n<p>one <b>two</b>\tthree</p> four\n"))
}
