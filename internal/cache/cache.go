// Package cache is a thin wrapper around an in-process TTL cache.
// Mutating handlers are responsible for deleting every key they can
// stale; reads always fall back to the store on a miss.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	locationTTL = 10 * time.Minute
	contentTTL  = 5 * time.Minute
	statsTTL    = 30 * time.Minute

	cleanupInterval = 30 * time.Minute
)

// Cache holds the process-wide read caches
type Cache struct {
	locations *gocache.Cache
	content   *gocache.Cache
	stats     *gocache.Cache
}

// New creates the caches with their per-concern TTLs
func New() *Cache {
	return &Cache{
		locations: gocache.New(locationTTL, cleanupInterval),
		content:   gocache.New(contentTTL, cleanupInterval),
		stats:     gocache.New(statsTTL, cleanupInterval),
	}
}

// Key builds a cache key from a prefix and its parts
func Key(prefix string, parts ...any) string {
	b := strings.Builder{}
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteString(":")
		b.WriteString(fmt.Sprintf("%v", p))
	}
	return b.String()
}

// GetLocation returns a cached location payload
func (c *Cache) GetLocation(key string) (any, bool) {
	return c.locations.Get(key)
}

// SetLocation caches a location payload
func (c *Cache) SetLocation(key string, value any) {
	c.locations.Set(key, value, gocache.DefaultExpiration)
}

// GetContent returns a cached content payload
func (c *Cache) GetContent(key string) (any, bool) {
	return c.content.Get(key)
}

// SetContent caches a content payload
func (c *Cache) SetContent(key string, value any) {
	c.content.Set(key, value, gocache.DefaultExpiration)
}

// GetStats returns a cached stats payload
func (c *Cache) GetStats(key string) (any, bool) {
	return c.stats.Get(key)
}

// SetStats caches a stats payload
func (c *Cache) SetStats(key string, value any) {
	c.stats.Set(key, value, gocache.DefaultExpiration)
}

// InvalidateContent drops a content key after a block or FAQ mutation
func (c *Cache) InvalidateContent(key string) {
	c.content.Delete(key)
}

// InvalidateLocations drops every location payload. Location mutations
// change paths and child listings across the tree, so a blanket flush is
// the safe invalidation.
func (c *Cache) InvalidateLocations() {
	c.locations.Flush()
}

// InvalidateStats drops the cached stats payloads
func (c *Cache) InvalidateStats() {
	c.stats.Flush()
}

// Flush clears everything
func (c *Cache) Flush() {
	c.locations.Flush()
	c.content.Flush()
	c.stats.Flush()
}
