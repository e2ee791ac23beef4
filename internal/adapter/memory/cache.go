package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry struct {
	version   uint64
	value     []byte
	expiresAt time.Time
}

// SnapshotCache holds the last encoded mosaic per worker, tagged with the
// mosaic version it was rendered from.
type SnapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[uuid.UUID]cacheEntry
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]cacheEntry),
	}
}

func (c *SnapshotCache) Get(id uuid.UUID) (uint64, []byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return 0, nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return 0, nil, false
	}
	return entry.version, entry.value, true
}

// Set stores value for id and evicts every other expired entry.
func (c *SnapshotCache) Set(id uuid.UUID, version uint64, value []byte) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[id] = cacheEntry{
		version:   version,
		value:     value,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SnapshotCache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
