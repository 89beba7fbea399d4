package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duopane/engine/pkg/types"
)

func sz(n int64) *int64 { return &n }

func TestDiffAdd(t *testing.T) {
	oldEntries := []types.FileEntry{{Path: "/t/a", Name: "a"}}
	newEntries := []types.FileEntry{{Path: "/t/a", Name: "a"}, {Path: "/t/b", Name: "b"}}

	changes := Diff(oldEntries, newEntries)
	assert.Len(t, changes, 1)
	assert.Equal(t, types.ChangeAdd, changes[0].Type)
	assert.Equal(t, "b", changes[0].Entry.Name)
}

func TestDiffRemove(t *testing.T) {
	oldEntries := []types.FileEntry{{Path: "/t/a", Name: "a"}, {Path: "/t/b", Name: "b"}}
	newEntries := []types.FileEntry{{Path: "/t/a", Name: "a"}}

	changes := Diff(oldEntries, newEntries)
	assert.Len(t, changes, 1)
	assert.Equal(t, types.ChangeRemove, changes[0].Type)
	assert.Equal(t, "b", changes[0].Entry.Name)
}

func TestDiffModifySize(t *testing.T) {
	oldEntries := []types.FileEntry{{Path: "/t/a", Name: "a", Size: sz(1)}}
	newEntries := []types.FileEntry{{Path: "/t/a", Name: "a", Size: sz(2)}}

	changes := Diff(oldEntries, newEntries)
	assert.Len(t, changes, 1)
	assert.Equal(t, types.ChangeModify, changes[0].Type)
}

func TestDiffNoChangeIsEmpty(t *testing.T) {
	entries := []types.FileEntry{{Path: "/t/a", Name: "a", Size: sz(1)}}
	changes := Diff(entries, entries)
	assert.Empty(t, changes)
}

func TestDiffCreateThenDeleteWithinWindowCancelsOut(t *testing.T) {
	// simulates create+delete observed as the same before/after snapshot
	base := []types.FileEntry{{Path: "/t/a", Name: "a"}}
	changes := Diff(base, base)
	assert.Empty(t, changes)
}
