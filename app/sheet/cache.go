package sheet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes parsed tables per source URL for a caller-supplied TTL.
// Concurrent misses for the same URL share one fetch, and a caller giving up
// does not cancel it for the others.
type Cache struct {
	fetcher Fetcher
	entries map[string]*CacheEntry
	mu      sync.RWMutex
	group   singleflight.Group
	now     func() time.Time
}

func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string]*CacheEntry),
		now:     time.Now,
	}
}

// GetOrFetch returns the cached table for url while it is younger than ttl,
// otherwise it fetches and stores a fresh one.
func (c *Cache) GetOrFetch(ctx context.Context, url string, ttl time.Duration) (*Table, error) {
	if entry, ok := c.lookup(url, ttl); ok {
		slog.Debug("Table cache hit", "url", url, "age", c.now().Sub(entry.FetchedAt))
		return entry.Table, nil
	}

	// The shared fetch outlives any single caller; Source bounds it with its
	// own timeout.
	fetchCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(url, func() (interface{}, error) {
		// Another caller may have stored a fresh entry while we waited.
		if entry, ok := c.lookup(url, ttl); ok {
			return entry.Table, nil
		}

		table, err := c.fetcher.Fetch(fetchCtx, url)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[url] = &CacheEntry{
			Table:     table,
			URL:       url,
			FetchedAt: c.now(),
		}
		c.mu.Unlock()

		return table, nil
	})

	select {
	case <-ctx.Done():
		return nil, &DataLoadError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			slog.Error("Table fetch failed", "url", url, "error", res.Err)
			return nil, res.Err
		}

		slog.Debug("Table cache miss", "url", url, "shared", res.Shared)
		return res.Val.(*Table), nil
	}
}

// Invalidate drops the entry for url so the next GetOrFetch re-fetches.
func (c *Cache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

func (c *Cache) Entry(url string) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok {
		return CacheEntry{}, false
	}
	return *entry, true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(url string, ttl time.Duration) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.FetchedAt) >= ttl {
		return nil, false
	}
	return entry, true
}
