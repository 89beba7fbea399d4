// Package dirreader implements the two-phase directory read: a fast core
// read (one lstat-equivalent per child) and a batch extended read for the
// platform-specific fields that are too expensive to fetch eagerly.
package dirreader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

// Reader performs core and extended directory reads rooted at nothing in
// particular — it operates on whatever absolute path it is given, and the
// volume layer is responsible for path resolution.
type Reader struct{}

// NewReader returns a Reader. It holds no state; the id cache it draws on
// is a package-level singleton shared by every Reader.
func NewReader() *Reader { return &Reader{} }

// CoreRead walks dirPath once and returns one FileEntry per child, per
// spec §4.2. Entries whose metadata call fails still appear, with minimal
// fields, rather than being dropped.
func (r *Reader) CoreRead(_ context.Context, dirPath string) ([]types.FileEntry, error) {
	logger := log.WithComponent("dirreader")
	dirents, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, classifyReadErr(err)
	}

	entries := make([]types.FileEntry, 0, len(dirents))
	for _, dirent := range dirents {
		entry := r.readChild(dirPath, dirent)
		entries = append(entries, entry)
	}
	logger.Debug().Str("dir", dirPath).Int("count", len(entries)).Msg("core read")
	return entries, nil
}

// Stat returns the FileEntry for path itself, using the same lstat/probe
// rules as a core-read child (spec §4.2 applied to a single path, used by
// the volume layer's get_metadata).
func (r *Reader) Stat(_ context.Context, path string) (types.FileEntry, error) {
	lstatInfo, err := os.Lstat(path)
	if err != nil {
		return types.FileEntry{}, classifyReadErr(err)
	}

	name := filepath.Base(path)
	isSymlink := lstatInfo.Mode()&os.ModeSymlink != 0
	isDir := lstatInfo.IsDir()
	if isSymlink {
		if target, statErr := os.Stat(path); statErr == nil {
			isDir = target.IsDir()
		} else {
			return symlinkBrokenEntry(path, name), nil
		}
	}

	perm, uid, gid, ok := rawStatInfo(lstatInfo)
	if !ok {
		return minimalEntry(path, name, isSymlink), nil
	}

	var size *int64
	if !isDir && !isSymlink {
		s := lstatInfo.Size()
		size = &s
	}
	modAt := lstatInfo.ModTime().Unix()

	return types.FileEntry{
		Path:        path,
		Name:        name,
		IsDirectory: isDir,
		IsSymlink:   isSymlink,
		Size:        size,
		ModifiedAt:  &modAt,
		Permissions: perm,
		Owner:       globalIDCache.ownerName(uid),
		Group:       globalIDCache.groupName(gid),
		IconID:      iconID(isDir, isSymlink, false, name),
	}, nil
}

func (r *Reader) readChild(dirPath string, dirent os.DirEntry) types.FileEntry {
	childPath := filepath.Join(dirPath, dirent.Name())
	isSymlink := dirent.Type()&os.ModeSymlink != 0

	lstatInfo, err := os.Lstat(childPath)
	if err != nil {
		return minimalEntry(childPath, dirent.Name(), isSymlink)
	}

	isDir := lstatInfo.IsDir()
	if isSymlink {
		// Probe the target to decide is_directory; metadata itself still
		// comes from the link (lstat), per spec §4.2.
		if target, statErr := os.Stat(childPath); statErr == nil {
			isDir = target.IsDir()
		} else {
			return symlinkBrokenEntry(childPath, dirent.Name())
		}
	}

	perm, uid, gid, ok := rawStatInfo(lstatInfo)
	if !ok {
		return minimalEntry(childPath, dirent.Name(), isSymlink)
	}

	var size *int64
	if !isDir && !isSymlink {
		s := lstatInfo.Size()
		size = &s
	}

	modAt := lstatInfo.ModTime().Unix()

	return types.FileEntry{
		Path:        childPath,
		Name:        dirent.Name(),
		IsDirectory: isDir,
		IsSymlink:   isSymlink,
		Size:        size,
		ModifiedAt:  &modAt,
		Permissions: perm,
		Owner:       globalIDCache.ownerName(uid),
		Group:       globalIDCache.groupName(gid),
		IconID:      iconID(isDir, isSymlink, false, dirent.Name()),
	}
}

func minimalEntry(path, name string, isSymlink bool) types.FileEntry {
	icon := types.IconFile
	if isSymlink {
		icon = types.IconSymlinkBroken
	}
	return types.FileEntry{
		Path:      path,
		Name:      name,
		IsSymlink: isSymlink,
		IconID:    icon,
	}
}

func symlinkBrokenEntry(path, name string) types.FileEntry {
	return types.FileEntry{
		Path:      path,
		Name:      name,
		IsSymlink: true,
		IconID:    types.IconSymlinkBroken,
	}
}

// iconID derives the icon tag from (is-dir, is-symlink, broken, name
// extension) per spec §3.
func iconID(isDir, isSymlink, broken bool, name string) string {
	switch {
	case isSymlink && broken:
		return types.IconSymlinkBroken
	case isSymlink && isDir:
		return types.IconSymlinkDir
	case isSymlink:
		return types.IconSymlinkFile
	case isDir:
		return types.IconDir
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return types.IconFile
	}
	return "ext:" + ext
}

// ExtendedRead returns (path, added_at, opened_at) triples for a batch of
// paths, sourced from darwin or returning nulls elsewhere (spec §4.2).
func (r *Reader) ExtendedRead(ctx context.Context, paths []string) []types.ExtendedMetadata {
	return extendedRead(ctx, paths)
}

func classifyReadErr(err error) error {
	if os.IsNotExist(err) {
		return notFoundErr(err)
	}
	if os.IsPermission(err) {
		return permissionDeniedErr(err)
	}
	return ioErr(err)
}
