// Package figcache keeps recently rendered figures in memory.
//
// The form re-renders the diagram on every change, and the same parameters
// are requested repeatedly (page, PNG link, SVG link). Entries are evicted
// least recently used first once the entry limit is reached.
package figcache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/ggcircle"
)

// Key identifies one rendered figure.
type Key struct {
	Spec   ggcircle.CircleSpec
	Format string
	Width  int
	Height int
}

// Cache is a thread-safe LRU cache of rendered figures.
// Cache must not be copied after creation.
type Cache struct {
	mu      sync.Mutex
	limit   int
	entries map[Key]*node
	order   recency
	renders singleflight.Group

	hits, misses uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// New creates a cache holding at most limit figures. A limit <= 0
// disables caching: every lookup misses and nothing is stored.
func New(limit int) *Cache {
	return &Cache{
		limit:   limit,
		entries: make(map[Key]*node),
	}
}

// Get returns the cached figure for key.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.data, true
}

// Put stores data under key, evicting the least recently used entry when
// the cache is full. data must not be modified afterwards.
func (c *Cache) Put(key Key, data []byte) {
	if c.limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.data = data
		c.order.moveToFront(n)
		return
	}
	n := &node{key: key, data: data}
	c.entries[key] = n
	c.order.pushFront(n)
	for c.order.len > c.limit {
		old := c.order.removeOldest()
		delete(c.entries, old.key)
	}
}

// GetOrRender returns the cached figure for key, rendering and storing it
// on a miss. Render errors are returned and nothing is stored. Concurrent
// misses for the same key share a single render call.
func (c *Cache) GetOrRender(key Key, render func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}
	v, err, shared := c.renders.Do(flightKey(key), func() (any, error) {
		if data, ok := c.peek(key); ok {
			return data, nil
		}
		data, err := render()
		if err != nil {
			return nil, err
		}
		c.Put(key, data)
		ggcircle.Logger().Debug("figcache: rendered", "format", key.Format, "bytes", len(data))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		ggcircle.Logger().Debug("figcache: shared render", "format", key.Format)
	}
	return v.([]byte), nil
}

// peek looks key up without touching the counters or the recency order.
func (c *Cache) peek(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return n.data, true
}

// flightKey renders k exactly; CircleSpec.String rounds for display.
func flightKey(k Key) string {
	s := k.Spec
	return fmt.Sprintf("%s|%dx%d|%g,%g|%g|%d|%s",
		k.Format, k.Width, k.Height, s.Center.X, s.Center.Y, s.Radius, s.PointCount, s.PointColor)
}

// Len returns the number of cached figures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// Clear removes all entries. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*node)
	c.order = recency{}
}
