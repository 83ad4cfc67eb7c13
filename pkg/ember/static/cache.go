package static

import (
	"os"
	"sync"
	"sync/atomic"
)

// FileCache keeps the contents of recently served files in memory, bounded by
// entry count with least-recently-used eviction. Cached slices are shared and
// must not be modified.
//
// A capacity of 0 disables caching: every Load reads the file.
type FileCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*lruNode
	order    lruList

	// gen is bumped by Invalidate and Purge. A read that started under an
	// older generation may hold stale bytes and is not cached.
	gen uint64

	hits   atomic.Uint64
	misses atomic.Uint64

	readFile func(string) ([]byte, error)
}

// NewFileCache creates a cache holding at most capacity files.
func NewFileCache(capacity int) *FileCache {
	if capacity < 0 {
		capacity = 0
	}
	return &FileCache{
		capacity: capacity,
		items:    make(map[string]*lruNode, capacity),
		readFile: os.ReadFile,
	}
}

// Load returns the contents of path, reading it on a miss.
// Read errors are returned as is and nothing is cached for them.
func (c *FileCache) Load(path string) ([]byte, error) {
	if c.capacity == 0 {
		c.misses.Add(1)
		return c.readFile(path)
	}

	c.mu.Lock()
	if node, ok := c.items[path]; ok {
		c.order.moveToFront(node)
		data := node.data
		c.mu.Unlock()
		c.hits.Add(1)
		return data, nil
	}
	gen := c.gen
	c.mu.Unlock()

	c.misses.Add(1)
	data, err := c.readFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return data, nil
	}
	// Another reader may have filled it meanwhile
	if node, ok := c.items[path]; ok {
		node.data = data
		c.order.moveToFront(node)
		return data, nil
	}
	c.items[path] = c.order.pushFront(path, data)
	for c.order.size > c.capacity {
		oldest := c.order.back()
		c.order.remove(oldest)
		delete(c.items, oldest.path)
	}
	return data, nil
}

// Invalidate drops path from the cache and keeps reads already in flight
// from caching what they read. It reports whether path was cached.
func (c *FileCache) Invalidate(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	node, ok := c.items[path]
	if !ok {
		return false
	}
	c.order.remove(node)
	delete(c.items, path)
	return true
}

// Purge drops every entry.
func (c *FileCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[string]*lruNode, c.capacity)
	c.order = lruList{}
}

// Len returns the number of cached files.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.size
}

// Hits returns the number of loads served from memory.
func (c *FileCache) Hits() uint64 { return c.hits.Load() }

// Misses returns the number of loads that read the file.
func (c *FileCache) Misses() uint64 { return c.misses.Load() }
