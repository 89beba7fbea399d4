package sortengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duopane/engine/pkg/types"
)

func names(entries []types.FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func entry(name string, isDir bool) types.FileEntry {
	return types.FileEntry{Name: name, IsDirectory: isDir}
}

func TestDirectoriesGroupBeforeFiles(t *testing.T) {
	entries := []types.FileEntry{
		entry("zebra.txt", false),
		entry("apple", true),
		entry("banana.txt", false),
	}
	Sort(entries, types.SortByName, types.SortAscending)
	assert.Equal(t, []string{"apple", "banana.txt", "zebra.txt"}, names(entries))

	Sort(entries, types.SortByName, types.SortDescending)
	// group ordering unaffected by descending; within-group order inverted.
	assert.Equal(t, []string{"apple", "zebra.txt", "banana.txt"}, names(entries))
}

func TestNaturalNumericNameSort(t *testing.T) {
	entries := []types.FileEntry{
		entry("img_10.jpg", false),
		entry("img_2.jpg", false),
		entry("img_1.jpg", false),
		entry("img_20.jpg", false),
	}
	Sort(entries, types.SortByName, types.SortAscending)
	assert.Equal(t, []string{"img_1.jpg", "img_2.jpg", "img_10.jpg", "img_20.jpg"}, names(entries))
}

func TestSortIsNoOpOnAlreadySorted(t *testing.T) {
	entries := []types.FileEntry{
		entry("a", false),
		entry("b", false),
		entry("c", false),
	}
	before := append([]types.FileEntry(nil), entries...)
	Sort(entries, types.SortByName, types.SortAscending)
	assert.Equal(t, before, entries)
}

func TestSizeMissingSortsBeforePresent(t *testing.T) {
	size := int64(10)
	entries := []types.FileEntry{
		{Name: "b", Size: &size},
		{Name: "a", Size: nil},
	}
	Sort(entries, types.SortBySize, types.SortAscending)
	assert.Equal(t, []string{"a", "b"}, names(entries))
}

func TestExtensionOrdering(t *testing.T) {
	entries := []types.FileEntry{
		entry("photo.jpg", false),
		entry(".hidden", false),
		entry("README", false),
	}
	Sort(entries, types.SortByExtension, types.SortAscending)
	assert.Equal(t, []string{".hidden", "README", "photo.jpg"}, names(entries))
}
