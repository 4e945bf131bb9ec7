package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seowriter/internal/formatter"
	"seowriter/internal/imagegen"
	"seowriter/internal/llm"
	"seowriter/internal/metrics"
	"seowriter/internal/models"
	"seowriter/internal/normalizer"
	"seowriter/internal/pipeline"
	"seowriter/internal/scraper"
	"seowriter/internal/seo"
	"seowriter/internal/spellcheck"
	"seowriter/internal/storage"
	"seowriter/internal/validator"
	"seowriter/pkg/metadata"
)

type generateOptions struct {
	input       normalizer.Input
	keywords    []string
	reviewsFile string
	output      string
	publish     bool
	jsonOutput  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new article with the language model",
		Long: `Generate asks the language model for an article and runs the full pipeline on it.

For review articles with a product URL the product page is scraped first. Failures of the
scraper, proofreader or image API fall back to defaults and are reported as warnings; only
a failed completion aborts the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input.Type, "type", "general", "article type: general or review")
	f.StringVar(&opts.input.Topic, "topic", "", "article topic (required)")
	f.StringVar(&opts.input.ProductURL, "product-url", "", "product page to scrape for review articles")
	f.StringSliceVarP(&opts.keywords, "keywords", "k", nil, "SEO keywords, comma-separated or repeated")
	f.StringVar(&opts.input.GeoLocation, "geo", "", "target audience location")
	f.StringVar(&opts.input.CustomReviews, "reviews", "", "customer reviews to include")
	f.StringVar(&opts.reviewsFile, "reviews-file", "", "read customer reviews from a file")
	f.StringArrayVarP(&opts.input.Affiliates, "affiliate", "a", nil, `affiliate link as "Platform=URL" (repeatable)`)
	f.BoolVar(&opts.input.GenerateImages, "images", false, "generate images for [IMAGE: ...] placeholders")
	f.StringVarP(&opts.output, "output", "o", "", "write the article to this file instead of stdout")
	f.BoolVar(&opts.publish, "publish", false, "save the article to the configured output backend")
	f.BoolVar(&opts.jsonOutput, "json", false, "print the article and its report as JSON")

	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts.input.Keywords = splitKeywordsFlag(opts.keywords)

	if opts.reviewsFile != "" {
		data, err := os.ReadFile(opts.reviewsFile)
		if err != nil {
			return fmt.Errorf("failed to read reviews file: %w", err)
		}

		opts.input.CustomReviews = string(data)
	}

	req, err := normalizer.NewProcessor().Process(&opts.input)
	if err != nil {
		return err
	}

	m := metrics.New()
	defer a.writeMetrics(m)

	gen, cleanup, err := a.buildGenerator(ctx, m)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()

	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	html := res.HTML
	if a.cfg.Output.Sign {
		html = metadata.Sign(html, metadata.Metadata{
			GeneratedAt: start,
			RunID:       res.ID,
			Generator:   a.cfg.LLM.Provider + "/" + a.cfg.LLM.Model,
		})
	}

	article := res.Article(req.Topic, start)
	article.HTML = html

	if opts.publish {
		store, err := storage.New(ctx, a.cfg.Output)
		if err != nil {
			return err
		}

		key, err := store.SaveArticle(ctx, article.Slug, html)
		if err != nil {
			return err
		}

		a.log.Info("article published", "run_id", res.ID, "key", key, "backend", a.cfg.Output.Backend)
	}

	for _, w := range res.Warnings {
		a.log.Warn("degraded stage", "run_id", res.ID, "warning", w)
	}

	check := validator.NewArticleValidator(req.Keywords, 0).ValidateArticle(res.HTML)
	for _, e := range check.Errors {
		a.log.Warn("article check failed", "run_id", res.ID, "field", e.Field, "error", e.Message)
	}

	for _, w := range check.Warnings {
		a.log.Debug("article check warning", "run_id", res.ID, "warning", w)
	}

	a.log.Info("generation finished", "run_id", res.ID, "duration", time.Since(start))

	if opts.jsonOutput {
		data, err := json.MarshalIndent(struct {
			Article  models.Article `json:"article"`
			Warnings []string       `json:"warnings"`
		}{article, res.Warnings}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}

		return writeOutput(cmd, opts.output, string(data)+"\n")
	}

	if err := writeOutput(cmd, opts.output, html+"\n"); err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.ErrOrStderr(), "\n"+formatter.Report(res.Report))

	return err
}

// buildGenerator wires the configured collaborators. The returned cleanup releases
// connections held by the scrape cache.
func (a *app) buildGenerator(ctx context.Context, m *metrics.Metrics) (*pipeline.Generator, func(), error) {
	cleanup := func() {}

	completer, err := llm.New(ctx, a.cfg.LLM, a.log)
	if err != nil {
		return nil, cleanup, err
	}

	cache, err := scraper.NewCache(a.cfg.Scraper.Cache)
	if err != nil {
		return nil, cleanup, err
	}

	if rc, ok := cache.(*scraper.RedisCache); ok {
		cleanup = func() { _ = rc.Close() }
	}

	var scraperOpts []scraper.Option
	if cache != nil {
		scraperOpts = append(scraperOpts, scraper.WithCache(cache))
	}

	opts := []pipeline.Option{
		pipeline.WithScraper(scraper.New(a.cfg.Scraper, a.log, scraperOpts...)),
		pipeline.WithProofreader(spellcheck.NewChecker(completer, a.cfg.LLM, a.log)),
		pipeline.WithMetrics(m),
	}

	if a.cfg.ImagesAvailable() {
		client, err := imagegen.NewClient(a.cfg.Images, a.log)
		if err != nil {
			return nil, cleanup, err
		}

		var gen imagegen.Generator = client
		if a.cfg.Images.PlaceholderFallback {
			gen = imagegen.WithPlaceholderFallback(client, a.log)
		}

		opts = append(opts, pipeline.WithImages(imagegen.NewReplacer(gen, a.cfg.Images.Concurrency, a.log)))
	} else {
		a.log.Debug("image generation unavailable, placeholders become blocks")
	}

	optimizer := seo.New(a.seoOptions(), a.log)

	return pipeline.New(completer, a.cfg.LLM, optimizer, a.log, opts...), cleanup, nil
}

func (a *app) writeMetrics(m *metrics.Metrics) {
	if a.cfg.Metrics.Textfile == "" {
		return
	}

	if err := m.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("failed to write metrics textfile", "path", a.cfg.Metrics.Textfile, "error", err)
	}
}
