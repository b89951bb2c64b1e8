package loader

import (
	"sync"

	"github.com/dgallion1/docbrief/internal/document"
)

// Source builds a fresh document collection.
type Source interface {
	Load() (*document.Collection, error)
}

// Cache holds the current collection snapshot until it is invalidated.
// There is no file watching: a reload is always explicit and complete.
type Cache struct {
	src Source

	mu       sync.Mutex
	snapshot *document.Collection
}

func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Get returns the current snapshot, building it on first use.
// A failed build leaves the cache empty so the next call retries.
func (c *Cache) Get() (*document.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil {
		return c.snapshot, nil
	}
	docs, err := c.src.Load()
	if err != nil {
		return nil, err
	}
	c.snapshot = docs
	return docs, nil
}

// Invalidate drops the snapshot; the next Get rebuilds it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}

// Reload invalidates and rebuilds in one step.
func (c *Cache) Reload() (*document.Collection, error) {
	c.Invalidate()
	return c.Get()
}
