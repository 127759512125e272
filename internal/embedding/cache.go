package embedding

import (
	"container/list"
	"sync"
	"time"

	"github.com/art-dzd/news-bot/internal/globaltime"
)

type cacheEntry struct {
	key       string
	vector    []float64
	createdAt time.Time
}

// Cache is a bounded, recency-ordered embedding store. Two independent
// staleness notions apply: recency order decides capacity eviction, while
// createdAt (stamped on first insert only, never refreshed) decides
// age-based pruning.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached vector and marks the key most recently used.
func (c *Cache) Get(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*cacheEntry).vector, true
}

// Put inserts or overwrites the vector for key and marks it most recently
// used. The creation timestamp is stamped only when the key first appears;
// overwrites keep the original timestamp so age pruning is unaffected.
func (c *Cache) Put(key string, vector []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		element.Value.(*cacheEntry).vector = vector
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&cacheEntry{
		key:       key,
		vector:    vector,
		createdAt: globaltime.UTC(),
	})
	c.items[key] = element

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Prune rebuilds the cache keeping only entries whose key is in keep or
// whose age is below maxAge. Returns sizes before and after.
func (c *Cache) Prune(keep map[string]struct{}, maxAge time.Duration) (before, after int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before = c.order.Len()
	cutoff := globaltime.UTC().Add(-maxAge)

	for element := c.order.Front(); element != nil; {
		next := element.Next()
		entry := element.Value.(*cacheEntry)

		_, kept := keep[entry.key]
		if !kept && entry.createdAt.Before(cutoff) {
			c.order.Remove(element)
			delete(c.items, entry.key)
		}
		element = next
	}

	after = c.order.Len()
	return before, after
}

// CountOlderThan reports how many entries exceed the given age.
func (c *Cache) CountOlderThan(age time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := globaltime.UTC().Add(-age)
	count := 0
	for element := c.order.Front(); element != nil; element = element.Next() {
		if element.Value.(*cacheEntry).createdAt.Before(cutoff) {
			count++
		}
	}
	return count
}
