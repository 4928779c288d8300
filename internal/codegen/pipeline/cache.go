package pipeline

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Alia5/routegen/internal/codegen/scanner"
)

type cacheKey struct {
	hash uint64
	opts Options
}

// Cache memoizes results by snapshot hash and options.
type Cache struct {
	cache *ttlcache.Cache[cacheKey, *Result]
}

// NewCache returns a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	opts := []ttlcache.Option[cacheKey, *Result]{}
	opts = append(opts, ttlcache.WithTTL[cacheKey, *Result](ttl))
	return &Cache{cache: ttlcache.New(opts...)}
}

// Run returns the cached result for snap, running the pipeline on a miss.
// Failed runs are not cached.
func (c *Cache) Run(ctx context.Context, snap *scanner.Snapshot, opts Options) (*Result, bool, error) {
	key := cacheKey{hash: snap.Hash(), opts: opts}
	if item := c.cache.Get(key); item != nil {
		return item.Value(), true, nil
	}
	res, err := Run(ctx, snap, opts)
	if err != nil {
		return nil, false, err
	}
	c.cache.Set(key, res, ttlcache.DefaultTTL)
	return res, false, nil
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Start starts the cache background cleanup and blocks until context is cancelled
func (c *Cache) Start(ctx context.Context) {
	go c.cache.Start()
	<-ctx.Done()
	c.cache.Stop()
}
