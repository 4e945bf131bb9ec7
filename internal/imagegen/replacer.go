package imagegen

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"seowriter/internal/logger"
)

// Stats summarizes one Replace call.
type Stats struct {
	Placeholders int
	Generated    int
	Failed       int
}

// Replacer swaps placeholders for generated images.
type Replacer struct {
	gen         Generator
	log         *logger.Logger
	concurrency int
}

// NewReplacer creates a replacer. concurrency below 1 means one request at a time.
func NewReplacer(gen Generator, concurrency int, log *logger.Logger) *Replacer {
	if concurrency < 1 {
		concurrency = 1
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Replacer{gen: gen, concurrency: concurrency, log: log.Component("images")}
}

// Replace generates an image for every placeholder. A failed item becomes a fallback
// block; the others are unaffected. Output order always matches the input.
func (r *Replacer) Replace(ctx context.Context, article string) (string, Stats) {
	found := Find(article)

	stats := Stats{Placeholders: len(found)}
	if len(found) == 0 {
		return article, stats
	}

	if r.gen == nil {
		stats.Failed = len(found)

		return ReplaceAllWithBlocks(article), stats
	}

	urls := make([]string, len(found))
	errs := make([]error, len(found))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, p := range found {
		g.Go(func() error {
			urls[i], errs[i] = r.gen.Generate(ctx, p.Description)

			return nil
		})
	}

	// Workers record their own errors.
	_ = g.Wait()

	var b strings.Builder

	prev := 0

	for i, p := range found {
		b.WriteString(article[prev:p.Start])

		if errs[i] != nil || urls[i] == "" {
			r.log.Warn("image generation failed, keeping placeholder block", "description", p.Description, "error", errs[i])
			b.WriteString(BlockHTML(p.Description))

			stats.Failed++
		} else {
			b.WriteString(ImageHTML(urls[i], p.Description))

			stats.Generated++
		}

		prev = p.End
	}

	b.WriteString(article[prev:])

	return b.String(), stats
}
