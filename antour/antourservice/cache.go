package antourservice

import (
	"sync"

	"github.com/gregjones/httpcache"
)

// DefaultCacheSize is the number of solutions kept when Options.CacheSize is unset.
const DefaultCacheSize = 1024

// boundedCache keeps at most size entries of a httpcache.MemoryCache,
// dropping the oldest stored entry first.
type boundedCache struct {
	mtx   sync.Mutex
	size  int
	order []string
	cache *httpcache.MemoryCache
}

var _ httpcache.Cache = (*boundedCache)(nil)

func newBoundedCache(size int) *boundedCache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &boundedCache{
		size:  size,
		cache: httpcache.NewMemoryCache(),
	}
}

func (c *boundedCache) Get(key string) ([]byte, bool) {
	return c.cache.Get(key)
}

func (c *boundedCache) Set(key string, b []byte) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if _, ok := c.cache.Get(key); !ok {
		c.order = append(c.order, key)
	}
	c.cache.Set(key, b)
	for len(c.order) > c.size {
		c.cache.Delete(c.order[0])
		c.order = c.order[1:]
	}
}

func (c *boundedCache) Delete(key string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.cache.Delete(key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *boundedCache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.order)
}
