// Package listing implements the listing cache (C3): a concurrent map
// from listing-id to CachedListing, each kept live by a watcher until
// end_listing (spec §4.4).
package listing

import (
	"strings"
	"sync"

	"github.com/duopane/engine/internal/watcher"
	"github.com/duopane/engine/pkg/types"
)

// CachedListing is one row of the cache: the sorted entry vector at the
// last successful read, plus the sort state used to reproduce it. Hidden
// filtering is applied at query time only, never stored.
type CachedListing struct {
	ListingID string
	VolumeID  string
	Path      string

	mu        sync.RWMutex
	entries   []types.FileEntry
	sortBy    types.SortBy
	sortOrder types.SortOrder
	sequence  uint64

	watcher *watcher.Watcher
}

// CurrentEntries implements watcher.Accessor.
func (c *CachedListing) CurrentEntries() []types.FileEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.FileEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Swap implements watcher.Accessor: install the new vector and bump the
// monotonic sequence counter, atomically under the row's own lock.
func (c *CachedListing) Swap(newEntries []types.FileEntry, _ []types.DirectoryChange) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = newEntries
	c.sequence++
	return c.sequence
}

func (c *CachedListing) snapshot() ([]types.FileEntry, types.SortBy, types.SortOrder) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.FileEntry, len(c.entries))
	copy(out, c.entries)
	return out, c.sortBy, c.sortOrder
}

func (c *CachedListing) setSorted(entries []types.FileEntry, sortBy types.SortBy, sortOrder types.SortOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.sortBy = sortBy
	c.sortOrder = sortOrder
}

// visible filters entries by the include-hidden flag: names starting with
// "." are dropped when includeHidden is false.
func visible(entries []types.FileEntry, includeHidden bool) []types.FileEntry {
	if includeHidden {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// maxFilenameWidth returns the length in runes of the longest visible
// name, or nil when entries is empty.
func maxFilenameWidth(entries []types.FileEntry) *int {
	if len(entries) == 0 {
		return nil
	}
	max := 0
	for _, e := range entries {
		if n := len([]rune(e.Name)); n > max {
			max = n
		}
	}
	return &max
}
