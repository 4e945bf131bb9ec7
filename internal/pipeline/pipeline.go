// Package pipeline sequences article generation: product scrape, completion, proofreading,
// images, affiliate links and SEO annotation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seowriter/internal/affiliate"
	"seowriter/internal/config"
	"seowriter/internal/imagegen"
	"seowriter/internal/llm"
	"seowriter/internal/logger"
	"seowriter/internal/metrics"
	"seowriter/internal/models"
	"seowriter/internal/seo"
	"seowriter/pkg/slug"
)

// Stage names used for timings and metrics.
const (
	StageScrape      = "scrape"
	StageCompletion  = "completion"
	StageProofread   = "proofread"
	StageImages      = "images"
	StagePostProcess = "postprocess"
	StageReport      = "report"
)

// ErrNoCompleter is returned by Generate when no language model is configured.
var ErrNoCompleter = errors.New("no language model configured")

// ProductScraper looks up product details for review articles.
type ProductScraper interface {
	ScrapeDetailed(ctx context.Context, productURL string) (models.ProductInfo, error)
}

// Proofreader corrects article text.
type Proofreader interface {
	Proofread(ctx context.Context, text string) (string, error)
}

// ImageReplacer swaps image placeholders for generated images.
type ImageReplacer interface {
	Replace(ctx context.Context, article string) (string, imagegen.Stats)
}

// Result is one generated article with its diagnostics.
type Result struct {
	Timings  map[string]time.Duration
	Product  *models.ProductInfo
	ID       string
	HTML     string
	Warnings []string
	Report   models.SEOReport
}

// Generator runs the generation pipeline. Only the completion itself can fail a run;
// every other collaborator degrades to a default and adds a warning.
type Generator struct {
	completer   llm.Completer
	scraper     ProductScraper
	proofreader Proofreader
	images      ImageReplacer
	optimizer   *seo.Optimizer
	metrics     *metrics.Metrics
	log         *logger.Logger
	newID       func() string
	llmCfg      config.LLMConfig
}

// Option customizes a Generator.
type Option func(*Generator)

// WithScraper sets the product scraper used for review articles.
func WithScraper(s ProductScraper) Option {
	return func(g *Generator) { g.scraper = s }
}

// WithProofreader sets the proofreader.
func WithProofreader(p Proofreader) Option {
	return func(g *Generator) { g.proofreader = p }
}

// WithImages sets the image replacer. Without one, placeholders become fallback blocks.
func WithImages(r ImageReplacer) Option {
	return func(g *Generator) { g.images = r }
}

// WithMetrics records stage durations and fallbacks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithIDFunc replaces the run ID generator.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

// New creates a generator around a completer. A nil optimizer uses default options.
func New(completer llm.Completer, llmCfg config.LLMConfig, optimizer *seo.Optimizer, log *logger.Logger, opts ...Option) *Generator {
	if log == nil {
		log = logger.Discard()
	}

	if optimizer == nil {
		optimizer = seo.New(seo.DefaultOptions(), log)
	}

	g := &Generator{
		completer: completer,
		optimizer: optimizer,
		log:       log.Component("pipeline"),
		newID:     uuid.NewString,
		llmCfg:    llmCfg,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// run tracks the warnings and timings of one Generate call.
type run struct {
	g      *Generator
	result *Result
}

func (r *run) time(stage string, fn func()) {
	start := time.Now()
	fn()

	d := time.Since(start)
	r.result.Timings[stage] = d
	r.g.metrics.ObserveStage(stage, d)
}

func (r *run) fallback(collaborator, msg string, err error) {
	r.g.log.Warn(msg, "run_id", r.result.ID, "error", err)
	r.g.metrics.RecordFallback(collaborator)
	r.result.Warnings = append(r.result.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

// Generate produces a finished article for req.
func (g *Generator) Generate(ctx context.Context, req models.GenerationRequest) (*Result, error) {
	r := &run{g: g, result: &Result{ID: g.newID(), Timings: map[string]time.Duration{}}}
	articleType := string(req.Type)

	if g.completer == nil {
		g.metrics.RecordArticle(articleType, "failed")

		return nil, ErrNoCompleter
	}

	g.log.Info("generating article", "run_id", r.result.ID, "type", articleType, "topic", req.Topic)

	if req.IsReview() && req.ProductURL != "" && g.scraper != nil {
		r.time(StageScrape, func() {
			product, err := g.scraper.ScrapeDetailed(ctx, req.ProductURL)
			if err != nil {
				r.fallback("scraper", "product scrape failed, using fallback product", err)
			}

			r.result.Product = &product
		})
	}

	var (
		article string
		err     error
	)

	r.time(StageCompletion, func() {
		article, err = g.completer.Complete(ctx, llm.ArticleRequest(g.llmCfg, req, r.result.Product))
	})

	if err != nil {
		g.metrics.RecordArticle(articleType, "failed")

		return nil, fmt.Errorf("generate article: %w", err)
	}

	if g.proofreader != nil {
		r.time(StageProofread, func() {
			corrected, err := g.proofreader.Proofread(ctx, article)
			if err != nil {
				r.fallback("proofreader", "spell check failed, keeping original text", err)

				return
			}

			article = corrected
		})
	}

	r.time(StageImages, func() {
		if g.images == nil || !req.GenerateImages {
			article = imagegen.ReplaceAllWithBlocks(article)

			return
		}

		var stats imagegen.Stats

		article, stats = g.images.Replace(ctx, article)
		g.metrics.RecordImages(stats.Generated, stats.Failed)

		if stats.Failed > 0 {
			r.fallback("images", "image generation failed, using placeholder blocks",
				fmt.Errorf("%d of %d images failed", stats.Failed, stats.Placeholders))
		}
	})

	productName := req.Topic
	if r.result.Product != nil && r.result.Product.Name != "" {
		productName = r.result.Product.Name
	}

	r.time(StagePostProcess, func() {
		article = PostProcess(article, req, productName, g.optimizer)
	})

	r.time(StageReport, func() {
		r.result.Report = seo.Report(article, req.Keywords)
	})

	r.result.HTML = article
	g.metrics.RecordArticle(articleType, "ok")

	g.log.Info("article generated", "run_id", r.result.ID, "words", r.result.Report.WordCount,
		"warnings", len(r.result.Warnings))

	return r.result, nil
}

// PostProcess runs the deterministic stages on existing article HTML: remaining image
// placeholders become blocks, affiliate links are inserted when present and the SEO
// optimizer runs last. It never fails.
func PostProcess(article string, req models.GenerationRequest, productName string, optimizer *seo.Optimizer) string {
	article = imagegen.ReplaceAllWithBlocks(article)

	if len(req.AffiliateLinks) > 0 {
		if productName == "" {
			productName = req.Topic
		}

		article = affiliate.InsertLinks(article, req.AffiliateLinks, productName)
	}

	if optimizer == nil {
		optimizer = seo.New(seo.DefaultOptions(), nil)
	}

	return optimizer.Optimize(article, req.Keywords, req.Topic, req.GeoLocation)
}

// Article converts the result into a publishable article named after topic.
func (r *Result) Article(topic string, createdAt time.Time) models.Article {
	return models.Article{
		CreatedAt: createdAt,
		ID:        r.ID,
		Topic:     topic,
		Slug:      slug.GenerateWithFallback(topic, "article"),
		HTML:      r.HTML,
		Product:   r.Product,
		Report:    r.Report,
	}
}
