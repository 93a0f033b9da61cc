// Package memcache provides a byte-cost-bounded LRU cache of decoded
// images, keyed by request key.
package memcache

import (
	"container/list"
	"image"
	"sync"
)

// DefaultBudget is the default memory budget for decoded pixels.
const DefaultBudget int64 = 64 << 20 // 64 MiB

type entry struct {
	key  string
	img  image.Image
	cost int64
}

// Cache is a thread-safe LRU of decoded images.
type Cache struct {
	mu     sync.Mutex
	budget int64
	used   int64
	order  *list.List // front = most recent
	items  map[string]*list.Element
}

// New creates a cache with the given byte budget. A budget <= 0 uses
// DefaultBudget.
func New(budget int64) *Cache {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Cache{
		budget: budget,
		order:  list.New(),
		items:  make(map[string]*list.Element),
	}
}

// cost approximates the memory footprint of a decoded image.
func cost(img image.Image) int64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// Get returns the cached image for key and marks it recently used.
func (c *Cache) Get(key string) (image.Image, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).img, true
}

// Add stores an image under key, evicting least-recently-used images
// over budget. Images costlier than the whole budget are not cached.
func (c *Cache) Add(key string, img image.Image) {
	if c == nil || img == nil {
		return
	}
	weight := cost(img)
	if weight > c.budget {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		old := el.Value.(*entry)
		c.used += weight - old.cost
		old.img = img
		old.cost = weight
		c.order.MoveToFront(el)
	} else {
		c.items[key] = c.order.PushFront(&entry{key: key, img: img, cost: weight})
		c.used += weight
	}

	for c.used > c.budget {
		back := c.order.Back()
		if back == nil {
			break
		}
		victim := back.Value.(*entry)
		c.order.Remove(back)
		delete(c.items, victim.key)
		c.used -= victim.cost
	}
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Usage returns the approximate bytes held.
func (c *Cache) Usage() int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Clear drops every cached image.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.used = 0
}
