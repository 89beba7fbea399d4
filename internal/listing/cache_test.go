package listing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duopane/engine/internal/volume"
	"github.com/duopane/engine/pkg/types"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func TestStartListingAndGetRange(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.txt", "a.txt", ".hidden")

	vol := volume.NewLocalVolume(dir)
	cache := NewCache(50*time.Millisecond, func(types.DirectoryDiffEvent) {})

	result, err := cache.StartListing(context.Background(), vol, "local", "/", false, types.SortByName, types.SortAscending)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)

	entries, err := cache.GetRange(result.ListingID, 0, 10, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "b.txt", entries[1].Name)

	withHidden, err := cache.GetTotalCount(result.ListingID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, withHidden)

	cache.EndListing(result.ListingID)
	cache.EndListing(result.ListingID) // idempotent
}

func TestFindFileIndexAndGetFileAt(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.txt", "two.txt", "three.txt")

	vol := volume.NewLocalVolume(dir)
	cache := NewCache(50*time.Millisecond, func(types.DirectoryDiffEvent) {})
	result, err := cache.StartListing(context.Background(), vol, "local", "/", false, types.SortByName, types.SortAscending)
	require.NoError(t, err)
	defer cache.EndListing(result.ListingID)

	idx, err := cache.FindFileIndex(result.ListingID, "two.txt", false)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 2, *idx) // one, three, two alphabetically -> one, three, two.txt

	entry, err := cache.GetFileAt(result.ListingID, 0, false)
	require.NoError(t, err)
	require.NotNil(t, entry)
}

func TestResortListingPreservesCursor(t *testing.T) {
	dir := t.TempDir()
	names := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		names = append(names, nameForIndex(i))
	}
	writeFiles(t, dir, names...)

	vol := volume.NewLocalVolume(dir)
	cache := NewCache(50*time.Millisecond, func(types.DirectoryDiffEvent) {})
	result, err := cache.StartListing(context.Background(), vol, "local", "/", false, types.SortByName, types.SortAscending)
	require.NoError(t, err)
	defer cache.EndListing(result.ListingID)

	resort, err := cache.ResortListing(result.ListingID, types.SortByName, types.SortDescending, names[2], false)
	require.NoError(t, err)
	require.NotNil(t, resort.NewCursorIndex)
}

func TestEndListingOnUnknownIDIsNotError(t *testing.T) {
	cache := NewCache(50*time.Millisecond, func(types.DirectoryDiffEvent) {})
	cache.EndListing("does-not-exist")
}

func TestGetRangeUnknownListing(t *testing.T) {
	cache := NewCache(50*time.Millisecond, func(types.DirectoryDiffEvent) {})
	_, err := cache.GetRange("nope", 0, 10, false)
	assert.Error(t, err)
}

func nameForIndex(i int) string {
	return "file_" + string(rune('a'+i)) + ".txt"
}
