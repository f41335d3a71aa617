package antourservice

import (
	"context"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
)

func TestBoundedCacheDropsOldest(t *testing.T) {
	c := newBoundedCache(2)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("a", []byte("3"))
	assert.Equal(t, 2, c.Len())

	c.Set("c", []byte("4"))
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	b, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte("4"), b)

	c.Delete("b")
	assert.Equal(t, 1, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestBoundedCacheDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultCacheSize, newBoundedCache(0).size)
}

func TestServiceCacheIsBounded(t *testing.T) {
	s := NewService(Options{Defaults: testDefaults(), Workers: 1, Cache: true, CacheSize: 2}, log.NewNopLogger()).(*service)
	for seed := int64(1); seed <= 3; seed++ {
		c := squareConfiguration()
		c.Seed = seedp(seed)
		_, err := s.Solve(context.Background(), c)
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, s.cache.Len())
}
