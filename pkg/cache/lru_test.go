package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantgate/pkg/cache"
)

func TestLRU_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRU[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRU[string, int](3)
		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("replace", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRU[string, int](3)
		c.Put("a", 1)
		c.Put("a", 2)
		val, _ := c.Get("a")
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRU[string, int](3)
		c.Put("a", 1)
		assert.True(t, c.Remove("a"))
		assert.False(t, c.Remove("a"))
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { cache.NewLRU[string, int](0) })
	})
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a becomes most recent
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_TTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	c := cache.NewLRU[string, int](10, cache.WithTTL(time.Minute), cache.WithClock(clock))
	c.Put("a", 1)

	advance(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry expires exactly at its deadline")
	assert.Equal(t, 0, c.Len())

	c.Put("b", 2)
	advance(30 * time.Second)
	c.Put("b", 3) // refreshes the deadline
	advance(45 * time.Second)
	val, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, val)
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](64)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Put(id*1000+j, j)
				c.Get(id*1000 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}
