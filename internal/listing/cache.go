package listing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/internal/sortengine"
	"github.com/duopane/engine/internal/volume"
	"github.com/duopane/engine/internal/watcher"
	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

// resolver is implemented by volumes that can translate a volume-relative
// path into a real filesystem path the watcher can hand to fsnotify; only
// LocalVolume implements it.
type resolver interface {
	ResolvePath(p string) string
}

// StartResult is the payload of start_listing.
type StartResult struct {
	ListingID        string
	TotalCount       int
	MaxFilenameWidth *int
}

// ResortResult is the payload of resort_listing.
type ResortResult struct {
	NewCursorIndex *int
}

// Cache is the process-wide listing-id → CachedListing map.
type Cache struct {
	reader   *dirreader.Reader
	debounce time.Duration
	onEvent  watcher.EventFunc

	mu   sync.RWMutex
	rows map[string]*CachedListing
}

// NewCache returns an empty Cache. onEvent is called for every non-empty
// watcher diff, across every active listing.
func NewCache(debounce time.Duration, onEvent watcher.EventFunc) *Cache {
	return &Cache{
		reader:   dirreader.NewReader(),
		debounce: debounce,
		onEvent:  onEvent,
		rows:     make(map[string]*CachedListing),
	}
}

// StartListing reads path through vol, sorts it, inserts a new row under a
// fresh listing-id, starts a watcher when vol supports it, and returns the
// visible (include-hidden-filtered) count.
func (c *Cache) StartListing(ctx context.Context, vol volume.Volume, volumeID, path string, includeHidden bool, sortBy types.SortBy, sortOrder types.SortOrder) (StartResult, error) {
	entries, err := vol.ListDirectory(ctx, path)
	if err != nil {
		return StartResult{}, err
	}
	sortengine.Sort(entries, sortBy, sortOrder)

	id := uuid.NewString()
	row := &CachedListing{
		ListingID: id,
		VolumeID:  volumeID,
		Path:      path,
		entries:   entries,
		sortBy:    sortBy,
		sortOrder: sortOrder,
	}

	c.mu.Lock()
	c.rows[id] = row
	c.mu.Unlock()

	c.maybeStartWatcher(vol, path, row)

	visibleEntries := visible(entries, includeHidden)
	return StartResult{
		ListingID:        id,
		TotalCount:       len(visibleEntries),
		MaxFilenameWidth: maxFilenameWidth(visibleEntries),
	}, nil
}

func (c *Cache) maybeStartWatcher(vol volume.Volume, path string, row *CachedListing) {
	if !vol.SupportsWatching() {
		return
	}
	res, ok := vol.(resolver)
	if !ok {
		return
	}
	logger := log.WithListingID(row.ListingID)
	watchPath := res.ResolvePath(path)
	w, err := watcher.New(row.ListingID, watchPath, c.debounce, c.reader, row, c.onEvent)
	if err != nil {
		logger.Warn().Err(err).Str("path", watchPath).Msg("failed to start watcher, listing will not receive live diffs")
		return
	}
	row.watcher = w
	w.Start()
}

// GetRange slices the stored vector, filtering hidden entries first when
// includeHidden is false.
func (c *Cache) GetRange(listingID string, start, count int, includeHidden bool) ([]types.FileEntry, error) {
	row, err := c.get(listingID)
	if err != nil {
		return nil, err
	}
	entries, _, _ := row.snapshot()
	visibleEntries := visible(entries, includeHidden)
	return sliceRange(visibleEntries, start, count), nil
}

func sliceRange(entries []types.FileEntry, start, count int) []types.FileEntry {
	if start < 0 || start >= len(entries) {
		return []types.FileEntry{}
	}
	end := start + count
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// GetTotalCount returns the visible entry count.
func (c *Cache) GetTotalCount(listingID string, includeHidden bool) (int, error) {
	row, err := c.get(listingID)
	if err != nil {
		return 0, err
	}
	entries, _, _ := row.snapshot()
	return len(visible(entries, includeHidden)), nil
}

// FindFileIndex returns the index of name in the visible list, if present.
func (c *Cache) FindFileIndex(listingID, name string, includeHidden bool) (*int, error) {
	row, err := c.get(listingID)
	if err != nil {
		return nil, err
	}
	entries, _, _ := row.snapshot()
	visibleEntries := visible(entries, includeHidden)
	for i, e := range visibleEntries {
		if e.Name == name {
			idx := i
			return &idx, nil
		}
	}
	return nil, nil
}

// GetFileAt returns the entry at a visible-list index, if present.
func (c *Cache) GetFileAt(listingID string, index int, includeHidden bool) (*types.FileEntry, error) {
	row, err := c.get(listingID)
	if err != nil {
		return nil, err
	}
	entries, _, _ := row.snapshot()
	visibleEntries := visible(entries, includeHidden)
	if index < 0 || index >= len(visibleEntries) {
		return nil, nil
	}
	return &visibleEntries[index], nil
}

// ResortListing re-sorts the stored vector in place and, when
// cursorFilename is non-empty, locates its new index in the post-filter
// visible list.
func (c *Cache) ResortListing(listingID string, sortBy types.SortBy, sortOrder types.SortOrder, cursorFilename string, includeHidden bool) (ResortResult, error) {
	row, err := c.get(listingID)
	if err != nil {
		return ResortResult{}, err
	}

	entries, _, _ := row.snapshot()
	sortengine.Sort(entries, sortBy, sortOrder)
	row.setSorted(entries, sortBy, sortOrder)

	if cursorFilename == "" {
		return ResortResult{}, nil
	}
	visibleEntries := visible(entries, includeHidden)
	for i, e := range visibleEntries {
		if e.Name == cursorFilename {
			idx := i
			return ResortResult{NewCursorIndex: &idx}, nil
		}
	}
	return ResortResult{}, nil
}

// EndListing stops the watcher and drops the row. Calling it twice, or on
// an unknown id, is not an error.
func (c *Cache) EndListing(listingID string) {
	c.mu.Lock()
	row, ok := c.rows[listingID]
	if ok {
		delete(c.rows, listingID)
	}
	c.mu.Unlock()

	if ok && row.watcher != nil {
		row.watcher.Stop()
	}
}

func (c *Cache) get(listingID string) (*CachedListing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, ok := c.rows[listingID]
	if !ok {
		return nil, engineerr.New(engineerr.CodeNotFound, "unknown listing id: "+listingID).
			WithComponent("listing")
	}
	return row, nil
}
