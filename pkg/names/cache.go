package names

import (
	"sync"

	"github.com/sw33tLie/gridsync/pkg/library"
	"golang.org/x/text/cases"
)

// Cache holds names found by fallback sources, per platform. Ids are
// compared case-insensitively. A Cache lives for one session and is safe
// for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[library.Platform]map[string]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[library.Platform]map[string]string)}
}

// Get returns the cached name for id on platform p.
func (c *Cache) Get(p library.Platform, id string) (string, bool) {
	key := cacheKey(id)

	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.entries[p][key]
	return name, ok && name != ""
}

// Put stores a name. Empty names are ignored.
func (c *Cache) Put(p library.Platform, id, name string) {
	if name == "" {
		return
	}
	key := cacheKey(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[p]
	if !ok {
		m = make(map[string]string)
		c.entries[p] = m
	}
	m[key] = name
}

// Len returns the number of cached names across platforms.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.entries {
		n += len(m)
	}
	return n
}

// cases.Caser keeps state, so each call gets its own.
func cacheKey(id string) string {
	return cases.Fold().String(id)
}
