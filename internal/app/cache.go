package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"blogstats/internal/blog"
)

// Clock returns the current time. Tests substitute a fake one.
type Clock func() time.Time

// entry is a computed value and the instant it was computed.
type entry[T any] struct {
	value      T
	computedAt time.Time
	ttl        time.Duration
}

// fresh reports whether the entry may still be served at now.
func (e *entry[T]) fresh(now time.Time) bool {
	return e != nil && now.Sub(e.computedAt) < e.ttl
}

// Fetcher performs one read of the upstream blog collection.
type Fetcher interface {
	Fetch(ctx context.Context) (*blog.Dataset, error)
}

// FetchCacheOptions configure a FetchCache.
type FetchCacheOptions struct {
	TTL time.Duration
	// Coalesce shares one in-flight upstream call between concurrent misses.
	Coalesce bool
	Clock    Clock
	Metrics  *Metrics
	Logger   *zap.Logger
}

// FetchCache holds the single most recent upstream dataset for one TTL window.
type FetchCache struct {
	fetcher  Fetcher
	ttl      time.Duration
	coalesce bool
	now      Clock
	metrics  *Metrics
	log      *zap.Logger
	group    singleflight.Group

	mu  sync.Mutex
	cur *entry[*blog.Dataset]
}

// NewFetchCache wraps f with a single-slot TTL cache.
func NewFetchCache(f Fetcher, opts FetchCacheOptions) *FetchCache {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &FetchCache{
		fetcher:  f,
		ttl:      opts.TTL,
		coalesce: opts.Coalesce,
		now:      opts.Clock,
		metrics:  opts.Metrics,
		log:      opts.Logger,
	}
}

// Get returns the cached dataset while it is fresh. Otherwise it calls the
// upstream once; a failure is returned to this caller only and leaves the
// stored entry untouched.
func (c *FetchCache) Get(ctx context.Context) (*blog.Dataset, error) {
	if ds, ok := c.lookup(); ok {
		c.metrics.fetchLookup(true)
		return ds, nil
	}
	c.metrics.fetchLookup(false)

	if !c.coalesce {
		return c.load(ctx)
	}

	// the shared call must not die with whichever request happened to start it
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("blogs", func() (interface{}, error) {
		if ds, ok := c.lookup(); ok {
			return ds, nil
		}
		return c.load(shared)
	})
	if err != nil {
		return nil, err
	}
	return v.(*blog.Dataset), nil
}

// State reports when the held dataset was fetched, if there is one.
func (c *FetchCache) State() (computedAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return time.Time{}, false
	}
	return c.cur.computedAt, true
}

func (c *FetchCache) lookup() (*blog.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur.fresh(c.now()) {
		return c.cur.value, true
	}
	return nil, false
}

func (c *FetchCache) load(ctx context.Context) (*blog.Dataset, error) {
	start := time.Now()
	ds, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.metrics.upstreamError()
		c.log.Warn("Upstream fetch failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, err
	}

	c.mu.Lock()
	c.cur = &entry[*blog.Dataset]{value: ds, computedAt: c.now(), ttl: c.ttl}
	c.mu.Unlock()

	c.log.Info("Blogs fetched", zap.Int("blogs", len(ds.Blogs)), zap.Duration("took", time.Since(start)))
	return ds, nil
}

// SearchFunc computes matching titles for query against ds.
type SearchFunc func(ds *blog.Dataset, query string) ([]string, error)

// SearchCacheOptions configure a SearchCache.
type SearchCacheOptions struct {
	TTL time.Duration
	// Search defaults to blog.MatchTitles.
	Search  SearchFunc
	Clock   Clock
	Metrics *Metrics
}

// SearchCache memoizes search results per exact query string. The dataset
// is not part of the key, so a fresh entry is served even after the fetch
// cache has moved on to a newer dataset.
type SearchCache struct {
	ttl     time.Duration
	search  SearchFunc
	now     Clock
	metrics *Metrics

	mu    sync.RWMutex
	items map[string]*entry[[]string]
}

// NewSearchCache creates an empty SearchCache.
func NewSearchCache(opts SearchCacheOptions) *SearchCache {
	if opts.Search == nil {
		opts.Search = blog.MatchTitles
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &SearchCache{
		ttl:     opts.TTL,
		search:  opts.Search,
		now:     opts.Clock,
		metrics: opts.Metrics,
		items:   make(map[string]*entry[[]string]),
	}
}

// Get returns the stored titles for query while they are fresh; otherwise it
// searches ds and stores the result. Errors are not stored.
func (c *SearchCache) Get(ds *blog.Dataset, query string) ([]string, error) {
	c.mu.RLock()
	e := c.items[query]
	c.mu.RUnlock()

	if e.fresh(c.now()) {
		c.metrics.searchLookup(true)
		return e.value, nil
	}
	c.metrics.searchLookup(false)

	titles, err := c.search(ds, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[query] = &entry[[]string]{value: titles, computedAt: c.now(), ttl: c.ttl}
	c.mu.Unlock()
	return titles, nil
}

// Size returns current number of keys, stale ones included.
func (c *SearchCache) Size() int {
	c.mu.RLock()
	sz := len(c.items)
	c.mu.RUnlock()
	return sz
}

// Cleanup removes stale entries and returns how many it dropped.
func (c *SearchCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.items {
		if !e.fresh(now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}
