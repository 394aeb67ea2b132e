package crawler

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dbsmedya/locmatrix/internal/record"
)

// cache memoizes record lookups for the duration of one crawl. A record is
// fetched at most once per kind and id: found records are kept, not-found
// outcomes are remembered in a negative set, and concurrent lookups of the
// same key share one fetch.
type cache struct {
	mu      sync.Mutex
	records map[string]any
	missing map[string]struct{}
	group   singleflight.Group

	queries int
	hits    int
	byKind  map[string]int
}

func newCache() *cache {
	return &cache{
		records: make(map[string]any),
		missing: make(map[string]struct{}),
		byKind:  make(map[string]int),
	}
}

func cacheKey(kind, id string) string {
	return kind + "/" + id
}

// load returns the cached value for kind/id or calls fetch on a miss.
// onMiss runs before the fetch, after the query counter is incremented.
// A not-found outcome is returned as a *record.NotFoundError.
func (c *cache) load(ctx context.Context, kind, id string,
	fetch func(context.Context, string) (any, error), onMiss func(queries int)) (any, error) {
	key := cacheKey(kind, id)

	c.mu.Lock()
	if v, ok := c.records[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	if _, ok := c.missing[key]; ok {
		c.hits++
		c.mu.Unlock()
		return nil, record.NewNotFound(kind, id)
	}
	c.mu.Unlock()

	fetched := false
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		// A flight for this key may have completed since the check above.
		if v, ok := c.records[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
		if _, ok := c.missing[key]; ok {
			c.mu.Unlock()
			return nil, record.NewNotFound(kind, id)
		}
		fetched = true
		c.queries++
		c.byKind[kind]++
		queries := c.queries
		c.mu.Unlock()

		if onMiss != nil {
			onMiss(queries)
		}

		v, err := fetch(ctx, id)

		c.mu.Lock()
		defer c.mu.Unlock()
		switch {
		case err == nil:
			c.records[key] = v
		case record.IsNotFound(err):
			c.missing[key] = struct{}{}
		}
		return v, err
	})

	if !fetched {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return v, err
}

// hitRate returns the cache hit percentage with one decimal digit.
func (c *cache) hitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HitRate(c.hits, c.queries)
}

func (c *cache) usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Usage{
		Entries:      c.byKind[record.KindEntry],
		Assets:       c.byKind[record.KindAsset],
		ContentTypes: c.byKind[record.KindContentType],
		Queries:      c.queries,
		Hits:         c.hits,
		HitRate:      HitRate(c.hits, c.queries),
	}
}

// HitRate computes round(hits / (hits + misses) * 1000) / 10, the share of
// lookups served from the cache as a percentage with one decimal digit.
// It is 0 when there were no lookups.
func HitRate(hits, misses int) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return math.Round(float64(hits)/float64(total)*1000) / 10
}
