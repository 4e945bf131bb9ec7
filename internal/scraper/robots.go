package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// ErrDisallowedByRobots is returned when robots.txt forbids fetching a product page.
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

const robotsBodyLimit = 512 * 1024

// RobotsChecker answers robots.txt questions, caching one parsed file per host.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsChecker creates a checker using client for robots.txt requests.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		hosts:     map[string]*robotstxt.RobotsData{},
	}
}

// Allowed reports whether the page may be fetched. A robots.txt that cannot be
// retrieved, including a 5xx answer, allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, pageURL *url.URL) bool {
	data := r.load(ctx, pageURL)
	if data == nil {
		return true
	}

	path := pageURL.EscapedPath()
	if path == "" {
		path = "/"
	}

	if pageURL.RawQuery != "" {
		path += "?" + pageURL.RawQuery
	}

	return data.TestAgent(path, r.userAgent)
}

func (r *RobotsChecker) load(ctx context.Context, pageURL *url.URL) *robotstxt.RobotsData {
	key := pageURL.Scheme + "://" + pageURL.Host

	r.mu.Lock()
	data, ok := r.hosts[key]
	r.mu.Unlock()

	if ok {
		return data
	}

	data = r.fetch(ctx, key+"/robots.txt")

	r.mu.Lock()
	r.hosts[key] = data
	r.mu.Unlock()

	return data
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsBodyLimit))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}

	return data
}
