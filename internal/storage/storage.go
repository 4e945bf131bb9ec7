// Package storage publishes finished articles to the local filesystem or S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"seowriter/internal/config"
	"seowriter/pkg/slug"
)

// ErrEmptySlug is returned when an article is saved without a name.
var ErrEmptySlug = errors.New("article slug is required")

// Store saves an article and returns where it was written.
type Store interface {
	SaveArticle(ctx context.Context, slug, html string) (string, error)
}

// New creates the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.OutputConfig) (Store, error) {
	switch cfg.Backend {
	case config.OutputLocal, "":
		return NewLocal(cfg.BasePath)
	case config.OutputS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownOutputBackend, cfg.Backend)
	}
}

// articleKey builds articles/YYYY/MM/slug.html.
func articleKey(now time.Time, name string) string {
	return path.Join("articles", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), name+".html")
}

// Local writes articles under a base directory.
type Local struct {
	basePath string
	now      func() time.Time
}

// NewLocal creates a local store, creating basePath if needed.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Local{basePath: basePath, now: time.Now}, nil
}

// SaveArticle writes html and returns the path relative to the base directory.
// An existing file is never overwritten; a numeric suffix is added instead.
func (l *Local) SaveArticle(ctx context.Context, name, html string) (string, error) {
	if name == "" {
		return "", ErrEmptySlug
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := l.now()
	dir := filepath.Join(l.basePath, filepath.FromSlash(path.Dir(articleKey(now, name))))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create article directory: %w", err)
	}

	for counter := 0; ; counter++ {
		key := articleKey(now, slug.MakeUnique(name, counter))

		f, err := os.OpenFile(filepath.Join(l.basePath, filepath.FromSlash(key)), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}

		if err != nil {
			return "", fmt.Errorf("failed to create article file: %w", err)
		}

		if _, err := f.WriteString(html); err != nil {
			f.Close()

			return "", fmt.Errorf("failed to write article file: %w", err)
		}

		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to write article file: %w", err)
		}

		return key, nil
	}
}
