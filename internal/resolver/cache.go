package resolver

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/anvil-platform/moneta/internal/amount"
)

// QueryCache memoises successful query results per catalog generation.
type QueryCache struct {
	cache *gocache.Cache
}

// NewQueryCache returns a cache whose entries expire after ttl.
func NewQueryCache(ttl time.Duration) *QueryCache {
	cleanup := 2 * ttl
	if ttl <= 0 {
		cleanup = 0
	}
	return &QueryCache{cache: gocache.New(ttl, cleanup)}
}

func queryKey(generation string, required amount.Context) string {
	return generation + "|" + required.String()
}

func (c *QueryCache) get(generation string, required amount.Context) (amount.Type, bool) {
	v, ok := c.cache.Get(queryKey(generation, required))
	if !ok {
		return "", false
	}
	t, ok := v.(amount.Type)
	return t, ok
}

func (c *QueryCache) set(generation string, required amount.Context, t amount.Type) {
	c.cache.SetDefault(queryKey(generation, required), t)
}

// Len returns the number of cached entries, including expired ones not yet
// evicted.
func (c *QueryCache) Len() int { return c.cache.ItemCount() }

// Flush drops every entry.
func (c *QueryCache) Flush() { c.cache.Flush() }
