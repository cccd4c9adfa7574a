package texture

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// Resolver resolves a texture name to a decoded NRGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*cacheEntry
	index  *Index
	logger *slog.Logger
}

// cacheEntry records a load attempt; img stays nil when decoding failed so
// the file is not retried.
type cacheEntry struct {
	img *image.NRGBA
}

// NewCache creates a new texture cache backed by the given index.
// Decode failures are logged to logger (nil discards them).
func NewCache(index *Index, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		items:  make(map[string]*cacheEntry),
		index:  index,
		logger: logger,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or undecodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)
	if err != nil {
		c.logger.Warn("texture load failed", "name", texName, "err", err)
	}

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img}
	c.mu.Unlock()

	return img
}

// Require resolves texName and fails when the texture is missing or undecodable.
func Require(r Resolver, texName string) (*image.NRGBA, error) {
	img := r.Resolve(texName)
	if img == nil {
		return nil, fmt.Errorf("texture: %q not found or unreadable", texName)
	}
	return img, nil
}
