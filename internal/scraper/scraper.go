// Package scraper fetches store product pages and extracts product details from them.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seowriter/internal/config"
	"seowriter/internal/logger"
	"seowriter/internal/models"
)

// ErrInvalidURL indicates a product URL that cannot be fetched.
var ErrInvalidURL = errors.New("invalid product URL")

// Scraper turns product page URLs into ProductInfo records.
type Scraper struct {
	fetcher  *Fetcher
	robots   *RobotsChecker
	cache    Cache
	registry *Registry
	log      *logger.Logger
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithCache sets the product cache.
func WithCache(c Cache) Option {
	return func(s *Scraper) { s.cache = c }
}

// WithRegistry replaces the extractor registry.
func WithRegistry(r *Registry) Option {
	return func(s *Scraper) { s.registry = r }
}

// New creates a scraper from the scraper configuration.
func New(cfg config.ScraperConfig, log *logger.Logger, opts ...Option) *Scraper {
	if log == nil {
		log = logger.Discard()
	}

	fetcher := NewFetcher(cfg.Retry, cfg.UserAgent)

	s := &Scraper{
		fetcher:  fetcher,
		registry: NewRegistry(),
		log:      log.Component("scraper"),
	}

	if cfg.RespectRobots {
		s.robots = NewRobotsChecker(fetcher.client, cfg.UserAgent)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scrape never fails: any problem yields the minimal fallback record.
func (s *Scraper) Scrape(ctx context.Context, productURL string) models.ProductInfo {
	p, err := s.ScrapeDetailed(ctx, productURL)
	if err != nil {
		s.log.Warn("product scrape failed, using fallback product", "url", productURL, "error", err)
	}

	return p
}

// ScrapeDetailed is Scrape that also reports why the fallback record was returned.
// The returned product is always usable.
func (s *Scraper) ScrapeDetailed(ctx context.Context, productURL string) (models.ProductInfo, error) {
	u, err := url.Parse(strings.TrimSpace(productURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.FallbackProductInfo(), fmt.Errorf("%w: %q", ErrInvalidURL, productURL)
	}

	key := u.String()

	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("product cache read failed", "url", key, "error", err)
		} else if ok {
			s.log.Debug("product cache hit", "url", key)

			return p, nil
		}
	}

	if s.robots != nil && !s.robots.Allowed(ctx, u) {
		return models.FallbackProductInfo(), ErrDisallowedByRobots
	}

	body, status, elapsed, err := s.fetcher.FetchWithMetrics(ctx, key)
	if err != nil {
		return models.FallbackProductInfo(), fmt.Errorf("fetch product page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return models.FallbackProductInfo(), fmt.Errorf("parse product page: %w", err)
	}

	name, extract := s.registry.Lookup(u.Hostname())
	p := extract(doc)
	p.ApplyDefaults()

	s.log.Debug("product scraped", "url", key, "extractor", name, "status", status, "elapsed", elapsed)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p); err != nil {
			s.log.Warn("product cache write failed", "url", key, "error", err)
		}
	}

	return p, nil
}
