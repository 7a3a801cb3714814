// Package assets caches decoded billboard images so a file referenced by
// several biomes or layers is read and decoded once.
package assets

import (
	"image"
	"path/filepath"
	"sync"

	"github.com/Faultbox/splatearth/internal/engine/texture"
)

// Manager loads images through a Cache.
type Manager struct {
	cache *Cache
	load  func(path string) (image.Image, error)
}

// NewManager creates a manager that decodes with texture.Load.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		load:  texture.Load,
	}
}

// Load returns the decoded image at path. Failed loads are not cached.
func (m *Manager) Load(path string) (image.Image, error) {
	key := filepath.Clean(path)
	if img, ok := m.cache.Get(key); ok {
		return img, nil
	}

	img, err := m.load(key)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, img)
	return img, nil
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Cache is a simple in-memory cache for decoded images.
type Cache struct {
	data map[string]image.Image
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]image.Image),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]image.Image)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
