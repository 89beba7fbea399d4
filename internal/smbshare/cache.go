package smbshare

import (
	"sync"
	"time"

	"github.com/duopane/engine/pkg/types"
)

type cacheEntry struct {
	result    types.ShareListResult
	expiresAt time.Time
}

// cache is the 30 s-TTL share-list cache keyed by host-id (spec §4.8
// "Cache policy"). Unauthenticated requests read and write it;
// authenticated requests skip the read but still write on success.
type cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newCache(ttl time.Duration) *cache {
	return &cache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *cache) get(hostID string, now time.Time) (types.ShareListResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[hostID]
	if !ok || now.After(entry.expiresAt) {
		return types.ShareListResult{}, false
	}
	result := entry.result
	result.FromCache = true
	return result, true
}

func (c *cache) store(hostID string, result types.ShareListResult, now time.Time) {
	stored := result
	stored.FromCache = false
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hostID] = cacheEntry{result: stored, expiresAt: now.Add(c.ttl)}
}
