// Package viewcache caches rendered view payloads by route path.
package viewcache

import "sync"

type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func New() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload, ok := c.entries[path]
	return payload, ok
}

func (c *Cache) Set(path string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = payload
}

// Invalidate marks the cached payload for path as stale. The next Get
// for that path misses and the view is recomputed.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
}
