package volume

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/types"
)

// memEntry is one row of a MemoryVolume: metadata plus optional content.
type memEntry struct {
	meta    types.FileEntry
	content []byte
}

// MemoryVolume is a concurrent map from path to {metadata, optional
// content}; it never touches the real filesystem and has no watcher
// (spec §4.1). Paths are stored and looked up as given (no case folding).
type MemoryVolume struct {
	unsupportedCapabilities
	root string

	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemoryVolume returns an empty MemoryVolume rooted at root (root is
// only used for resolve(); there is no corresponding real directory).
func NewMemoryVolume(root string) *MemoryVolume {
	return &MemoryVolume{root: root, entries: make(map[string]memEntry)}
}

func (v *MemoryVolume) ListDirectory(_ context.Context, p string) ([]types.FileEntry, error) {
	dir := resolve(v.root, p)
	prefix := strings.TrimSuffix(dir, "/") + "/"

	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]types.FileEntry, 0)
	seen := make(map[string]bool)
	for path, e := range v.entries {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		// Only direct children: one more path segment, no nested separator.
		if idx := strings.Index(rest, "/"); idx >= 0 {
			childName := rest[:idx]
			if seen[childName] {
				continue
			}
			if _, real := v.entries[prefix+childName]; real {
				continue
			}
			seen[childName] = true
			out = append(out, types.FileEntry{
				Path:        prefix + childName,
				Name:        childName,
				IsDirectory: true,
				IconID:      types.IconDir,
			})
			continue
		}
		out = append(out, e.meta)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *MemoryVolume) GetMetadata(_ context.Context, p string) (types.FileEntry, error) {
	path := resolve(v.root, p)
	v.mu.RLock()
	defer v.mu.RUnlock()

	e, ok := v.entries[path]
	if !ok {
		return types.FileEntry{}, engineerr.New(engineerr.CodeNotFound, "path not found in memory volume").
			WithComponent("volume")
	}
	return e.meta, nil
}

func (v *MemoryVolume) Exists(_ context.Context, p string) bool {
	path := resolve(v.root, p)
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.entries[path]
	return ok
}

func (v *MemoryVolume) CreateFile(_ context.Context, p string) error {
	path := resolve(v.root, p)
	now := time.Now().Unix()
	size := int64(0)

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.entries[path]; exists {
		return engineerr.New(engineerr.CodeIOError, "path already exists").WithComponent("volume")
	}
	v.entries[path] = memEntry{meta: types.FileEntry{
		Path:       path,
		Name:       pathBase(path),
		Size:       &size,
		ModifiedAt: &now,
		IconID:     types.IconFile,
	}}
	return nil
}

func (v *MemoryVolume) CreateDirectory(_ context.Context, p string) error {
	path := resolve(v.root, p)
	now := time.Now().Unix()

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.entries[path]; exists {
		return engineerr.New(engineerr.CodeIOError, "path already exists").WithComponent("volume")
	}
	v.entries[path] = memEntry{meta: types.FileEntry{
		Path:        path,
		Name:        pathBase(path),
		IsDirectory: true,
		ModifiedAt:  &now,
		IconID:      types.IconDir,
	}}
	return nil
}

func (v *MemoryVolume) Delete(_ context.Context, p string) error {
	path := resolve(v.root, p)
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.entries[path]; !exists {
		return engineerr.New(engineerr.CodeNotFound, "path not found").WithComponent("volume")
	}
	delete(v.entries, path)
	return nil
}

func pathBase(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
