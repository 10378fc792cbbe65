package memory

import (
	"context"
	"sync"

	"github.com/aretw0/ooor/pkg/domain"
)

// Cache implements ports.SessionCache in memory.
// Safe for concurrent use. Entries never expire.
type Cache struct {
	data map[string]domain.WebSession
	mu   sync.RWMutex
}

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]domain.WebSession),
	}
}

// Write stores a copy of ws, so later mutations by the caller are not visible.
func (c *Cache) Write(ctx context.Context, key string, ws domain.WebSession) error {
	copied := ws.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = copied
	return nil
}

// Read returns a copy of the web session stored under key.
func (c *Cache) Read(ctx context.Context, key string) (domain.WebSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ws, ok := c.data[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return ws.Clone(), nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// List returns the stored keys.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys, nil
}
