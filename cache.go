package blockpage

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested page does not exist.
var ErrNotFound = sql.ErrNoRows

// PageCache is an in-memory cache of published pages with TTL. It is the
// primary PageSource in front of the SQLite store.
type PageCache struct {
	mu      sync.RWMutex
	pages   []Page
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPageCache creates a PageCache backed by the given Store.
func NewPageCache(s *Store, ttl time.Duration) *PageCache {
	return &PageCache{store: s, ttl: ttl}
}

func (c *PageCache) valid() bool {
	return c.bySlug != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PageCache) load() error {
	if c.valid() {
		return nil
	}
	pages, err := c.store.ListPages(StatusPublished)
	if err != nil {
		return err
	}
	bySlug := make(map[string]int, len(pages))
	for i, p := range pages {
		bySlug[p.Slug] = i
	}
	c.pages = pages
	c.bySlug = bySlug
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached pages after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PageCache) ensureLoaded() ([]Page, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		pages, bySlug := c.pages, c.bySlug
		c.mu.RUnlock()
		return pages, bySlug, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.pages, c.bySlug, nil
}

// Page returns a single published page by slug from the cache.
func (c *PageCache) Page(_ context.Context, slug string) (Page, error) {
	pages, bySlug, err := c.ensureLoaded()
	if err != nil {
		return Page{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return Page{}, ErrNotFound
	}
	return pages[i], nil
}

// Pages returns all published pages, newest first.
func (c *PageCache) Pages(_ context.Context) ([]Page, error) {
	pages, _, err := c.ensureLoaded()
	return pages, err
}
