package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"seowriter/internal/config"
	"seowriter/internal/models"
)

const redisKeyPrefix = "seowriter:product:"

// Cache stores scraped products by page URL.
type Cache interface {
	Get(ctx context.Context, url string) (models.ProductInfo, bool, error)
	Set(ctx context.Context, url string, product models.ProductInfo) error
}

// NewCache builds the cache selected by cfg.Backend. It returns nil for "none".
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		return NewMemoryCache(cfg.Size, cfg.TTL()), nil
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		return NewRedisCache(client, cfg.TTL()), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownCacheBackend, cfg.Backend)
	}
}

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	lru *expirable.LRU[string, models.ProductInfo]
}

// NewMemoryCache creates a cache holding up to size products for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size < 1 {
		size = 1
	}

	return &MemoryCache{lru: expirable.NewLRU[string, models.ProductInfo](size, nil, ttl)}
}

// Get returns the cached product for url.
func (c *MemoryCache) Get(_ context.Context, url string) (models.ProductInfo, bool, error) {
	p, ok := c.lru.Get(url)

	return p, ok, nil
}

// Set stores product under url.
func (c *MemoryCache) Set(_ context.Context, url string, product models.ProductInfo) error {
	c.lru.Add(url, product)

	return nil
}

// RedisCache stores products as JSON values in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached product for url.
func (c *RedisCache) Get(ctx context.Context, url string) (models.ProductInfo, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ProductInfo{}, false, nil
	}

	if err != nil {
		return models.ProductInfo{}, false, fmt.Errorf("redis get: %w", err)
	}

	var p models.ProductInfo
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.ProductInfo{}, false, fmt.Errorf("decode cached product: %w", err)
	}

	return p, true, nil
}

// Set stores product under url.
func (c *RedisCache) Set(ctx context.Context, url string, product models.ProductInfo) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+url, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
