package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry is one finished report with its expiry bookkeeping.
type cacheEntry struct {
	report *Report
	built  time.Time
	ttl    time.Duration
}

// expired returns true once the entry has outlived its TTL.
func (e *cacheEntry) expired() bool {
	if e.ttl == 0 {
		return true // No caching
	}
	return time.Since(e.built) > e.ttl
}

// ReportCache holds finished reports keyed by run configuration, with TTL
// expiry and singleflight stampede protection. Partial reports are never
// cached; callers are expected to re-run those.
type ReportCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

// NewReportCache creates an empty report cache.
func NewReportCache() *ReportCache {
	return &ReportCache{
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the cached report for key if one exists and is fresh.
func (c *ReportCache) Get(key string) (*Report, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !entry.expired() {
		return entry.report, true
	}
	return nil, false
}

// GetOrRun returns the cached report for key, or executes run and caches its
// result for ttl. Concurrent callers for the same key share a single run.
// A ttl of zero disables caching entirely.
func (c *ReportCache) GetOrRun(ctx context.Context, key string, ttl time.Duration, run func(ctx context.Context) *Report) *Report {
	if report, ok := c.Get(key); ok {
		return report
	}

	result, _, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring the singleflight lock.
		if report, ok := c.Get(key); ok {
			return report, nil
		}

		report := run(ctx)

		if ttl > 0 && !report.Partial {
			c.mu.Lock()
			c.entries[key] = &cacheEntry{
				report: report,
				built:  time.Now(),
				ttl:    ttl,
			}
			c.mu.Unlock()
		}
		return report, nil
	})
	return result.(*Report)
}

// Invalidate removes the cached report for key, forcing a rebuild on the
// next GetOrRun.
func (c *ReportCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
