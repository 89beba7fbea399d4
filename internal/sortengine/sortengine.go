// Package sortengine implements the directory-first, column-aware,
// natural-numeric sort applied to every listing (spec §4.3).
package sortengine

import (
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/duopane/engine/pkg/types"
)

// Sort orders entries in place: directories always precede files; within
// each group, the named column decides order. The sort is stable so ties
// preserve their prior relative order once the documented tie-breaks are
// exhausted.
func Sort(entries []types.FileEntry, sortBy types.SortBy, order types.SortOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j], sortBy, order)
	})
}

func less(a, b types.FileEntry, sortBy types.SortBy, order types.SortOrder) bool {
	if a.IsDirectory != b.IsDirectory {
		// Group ordering is never inverted by descending order.
		return a.IsDirectory
	}

	cmp := compareColumn(a, b, sortBy)
	if order == types.SortDescending {
		cmp = -cmp
	}
	return cmp < 0
}

func compareColumn(a, b types.FileEntry, sortBy types.SortBy) int {
	switch sortBy {
	case types.SortByExtension:
		return compareExtension(a, b)
	case types.SortBySize:
		return compareSize(a, b)
	case types.SortByModified:
		return compareTimestamp(a.ModifiedAt, b.ModifiedAt, a, b)
	case types.SortByCreated:
		return compareTimestamp(a.CreatedAt, b.CreatedAt, a, b)
	default:
		return compareName(a.Name, b.Name)
	}
}

// compareName is case-insensitive natural-numeric: runs of ASCII digits
// compare as integers ("file2" < "file10"), with byte order as the final
// tie-break for determinism.
func compareName(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return strings.Compare(a, b)
	}
	if natural.Less(la, lb) {
		return -1
	}
	return 1
}

// compareExtension sorts dot-files first, then extension-less names, then
// by lowercased extension; equal extensions break ties by name.
func compareExtension(a, b types.FileEntry) int {
	rankA, extA := extensionClass(a.Name)
	rankB, extB := extensionClass(b.Name)
	if rankA != rankB {
		if rankA < rankB {
			return -1
		}
		return 1
	}
	if extA != extB {
		return strings.Compare(extA, extB)
	}
	return compareName(a.Name, b.Name)
}

func extensionClass(name string) (rank int, ext string) {
	if strings.HasPrefix(name, ".") {
		return 0, ""
	}
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return 1, ""
	}
	return 2, strings.ToLower(name[dot+1:])
}

// compareSize treats a missing size as less than any present size.
func compareSize(a, b types.FileEntry) int {
	switch {
	case a.Size == nil && b.Size == nil:
		return compareName(a.Name, b.Name)
	case a.Size == nil:
		return -1
	case b.Size == nil:
		return 1
	case *a.Size == *b.Size:
		return compareName(a.Name, b.Name)
	case *a.Size < *b.Size:
		return -1
	default:
		return 1
	}
}

// compareTimestamp treats a missing timestamp as less than any present one.
func compareTimestamp(ta, tb *int64, a, b types.FileEntry) int {
	switch {
	case ta == nil && tb == nil:
		return compareName(a.Name, b.Name)
	case ta == nil:
		return -1
	case tb == nil:
		return 1
	case *ta == *tb:
		return compareName(a.Name, b.Name)
	case *ta < *tb:
		return -1
	default:
		return 1
	}
}
