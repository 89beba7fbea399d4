// Package watcher wraps fsnotify with a fixed debounce window and drives
// the re-read/diff/swap/emit cycle described in spec §4.5 for one active
// listing at a time.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

// Accessor is the seam into the owning listing row: the watcher reads the
// currently-cached entries to diff against, and swaps in the new vector
// plus bumps the sequence counter, atomically, on a non-empty diff.
type Accessor interface {
	CurrentEntries() []types.FileEntry
	Swap(newEntries []types.FileEntry, changes []types.DirectoryChange) uint64
}

// EventFunc delivers a directory-diff event to the UI.
type EventFunc func(types.DirectoryDiffEvent)

// Watcher watches one directory on behalf of one listing-id.
type Watcher struct {
	listingID string
	path      string
	debounce  time.Duration
	reader    *dirreader.Reader
	accessor  Accessor
	onEvent   EventFunc

	fsWatcher *fsnotify.Watcher

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	stopOnce sync.Once
	doneCh   chan struct{}
}

// New creates a Watcher. It does not start watching until Start is called.
func New(listingID, path string, debounce time.Duration, reader *dirreader.Reader, accessor Accessor, onEvent EventFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		listingID: listingID,
		path:      path,
		debounce:  debounce,
		reader:    reader,
		accessor:  accessor,
		onEvent:   onEvent,
		fsWatcher: fsWatcher,
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins the event loop in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	logger := log.WithListingID(w.listingID)
	defer close(w.doneCh)
	for {
		select {
		case _, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.scheduleFire()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Str("path", w.path).Msg("watcher error, continuing")
		}
	}
}

// scheduleFire (re)arms the single debounce timer for this listing; each
// new event within the window pushes the fire time out, so a burst of
// events collapses into exactly one re-read.
func (w *Watcher) scheduleFire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire runs the spec §4.5 steps 1-6. Cancellation races with Stop are
// resolved by checking w.stopped after re-reading, under the same lock
// that guards the timer, so a debounce firing concurrently with end_listing
// never swaps into a row that has already been dropped from the cache.
func (w *Watcher) fire() {
	logger := log.WithListingID(w.listingID)
	newEntries, err := w.reader.CoreRead(context.Background(), w.path)
	if err != nil {
		logger.Warn().Err(err).Str("path", w.path).Msg("re-read failed, directory may be unreadable")
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	oldEntries := w.accessor.CurrentEntries()
	changes := Diff(oldEntries, newEntries)
	if len(changes) == 0 {
		return
	}

	sequence := w.accessor.Swap(newEntries, changes)
	w.onEvent(types.DirectoryDiffEvent{
		ListingID: w.listingID,
		Sequence:  sequence,
		Changes:   changes,
	})
}

// Stop releases the native watch handle. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.fsWatcher.Close()
	})
}
