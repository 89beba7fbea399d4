package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/pkg/types"
)

// fakeAccessor is a minimal in-test stand-in for a listing cache row.
type fakeAccessor struct {
	mu       sync.Mutex
	entries  []types.FileEntry
	sequence uint64
}

func (a *fakeAccessor) CurrentEntries() []types.FileEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries
}

func (a *fakeAccessor) Swap(newEntries []types.FileEntry, _ []types.DirectoryChange) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = newEntries
	a.sequence++
	return a.sequence
}

func TestWatcherEmitsDiffOnCreate(t *testing.T) {
	dir := t.TempDir()
	reader := dirreader.NewReader()
	initial, err := reader.CoreRead(context.Background(), dir)
	require.NoError(t, err)

	accessor := &fakeAccessor{entries: initial}
	events := make(chan types.DirectoryDiffEvent, 4)

	w, err := New("listing-1", dir, 50*time.Millisecond, reader, accessor, func(e types.DirectoryDiffEvent) {
		events <- e
	})
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0644))

	select {
	case e := <-events:
		assert.Equal(t, "listing-1", e.ListingID)
		assert.Equal(t, uint64(1), e.Sequence)
		require.Len(t, e.Changes, 1)
		assert.Equal(t, types.ChangeAdd, e.Changes[0].Type)
		assert.Equal(t, "new.txt", e.Changes[0].Entry.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for directory-diff event")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	reader := dirreader.NewReader()
	accessor := &fakeAccessor{}

	w, err := New("listing-2", dir, 50*time.Millisecond, reader, accessor, func(types.DirectoryDiffEvent) {})
	require.NoError(t, err)
	w.Start()
	w.Stop()
	w.Stop()
}
