package watcher

import "github.com/duopane/engine/pkg/types"

// Diff computes the disjoint add/modify/remove sets between two core-read
// snapshots of the same directory, keyed by path (spec §4.5 step 3).
func Diff(oldEntries, newEntries []types.FileEntry) []types.DirectoryChange {
	oldByPath := make(map[string]types.FileEntry, len(oldEntries))
	for _, e := range oldEntries {
		oldByPath[e.Path] = e
	}
	newByPath := make(map[string]types.FileEntry, len(newEntries))
	for _, e := range newEntries {
		newByPath[e.Path] = e
	}

	var changes []types.DirectoryChange
	for path, newEntry := range newByPath {
		oldEntry, existed := oldByPath[path]
		if !existed {
			changes = append(changes, types.DirectoryChange{Type: types.ChangeAdd, Entry: newEntry})
			continue
		}
		if changed(oldEntry, newEntry) {
			changes = append(changes, types.DirectoryChange{Type: types.ChangeModify, Entry: newEntry})
		}
	}
	for path, oldEntry := range oldByPath {
		if _, stillPresent := newByPath[path]; !stillPresent {
			changes = append(changes, types.DirectoryChange{Type: types.ChangeRemove, Entry: oldEntry})
		}
	}
	return changes
}

// changed reports whether size, modified-at, permission bits, is-directory
// or is-symlink differ between the two snapshots of the same path.
func changed(a, b types.FileEntry) bool {
	if a.IsDirectory != b.IsDirectory || a.IsSymlink != b.IsSymlink || a.Permissions != b.Permissions {
		return true
	}
	if !int64PtrEqual(a.Size, b.Size) {
		return true
	}
	if !int64PtrEqual(a.ModifiedAt, b.ModifiedAt) {
		return true
	}
	return false
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
