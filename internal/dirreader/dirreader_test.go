package dirreader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	r := NewReader()
	entries, err := r.CoreRead(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]bool{}
	for _, e := range entries {
		byName[e.Name] = e.IsDirectory
		if e.Name == "a.txt" {
			assert.False(t, e.IsDirectory)
			require.NotNil(t, e.Size)
			assert.Equal(t, int64(2), *e.Size)
			assert.Equal(t, "ext:txt", e.IconID)
		}
		if e.Name == "sub" {
			assert.True(t, e.IsDirectory)
			assert.Nil(t, e.Size)
			assert.Equal(t, "dir", e.IconID)
		}
	}
	assert.Len(t, byName, 2)
}

func TestCoreReadNonexistent(t *testing.T) {
	r := NewReader()
	_, err := r.CoreRead(context.Background(), "/does/not/exist")
	assert.Error(t, err)
}

func TestIconID(t *testing.T) {
	assert.Equal(t, "dir", iconID(true, false, false, "foo"))
	assert.Equal(t, "symlink-dir", iconID(true, true, false, "foo"))
	assert.Equal(t, "symlink-file", iconID(false, true, false, "foo"))
	assert.Equal(t, "symlink-broken", iconID(false, true, true, "foo"))
	assert.Equal(t, "file", iconID(false, false, false, "noext"))
	assert.Equal(t, "ext:jpg", iconID(false, false, false, "photo.JPG"))
}

func TestExtendedReadReturnsOnePerPath(t *testing.T) {
	r := NewReader()
	results := r.ExtendedRead(context.Background(), []string{"/a", "/b", "/c"})
	require.Len(t, results, 3)
	assert.Equal(t, "/a", results[0].Path)
	assert.Equal(t, "/b", results[1].Path)
	assert.Equal(t, "/c", results[2].Path)
}
