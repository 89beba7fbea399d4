// Package volume implements the storage-root abstraction that the listing
// cache reads through: a named root exposing list/exists/metadata and a set
// of optional mutating capabilities, backed by either the local POSIX
// filesystem or an in-memory map.
package volume

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/types"
)

// Volume is a named storage root. Paths passed to a volume are relative to
// its root: a leading separator is stripped before joining with the root.
type Volume interface {
	// ListDirectory returns one FileEntry per child of path.
	ListDirectory(ctx context.Context, p string) ([]types.FileEntry, error)
	// GetMetadata returns the FileEntry for path itself.
	GetMetadata(ctx context.Context, p string) (types.FileEntry, error)
	// Exists reports whether path resolves to an entry.
	Exists(ctx context.Context, p string) bool

	// CreateFile, CreateDirectory, Delete, and SupportsWatching are
	// optional capabilities; volumes that don't implement them return
	// engineerr.CodeNotSupported / false.
	CreateFile(ctx context.Context, p string) error
	CreateDirectory(ctx context.Context, p string) error
	Delete(ctx context.Context, p string) error
	SupportsWatching() bool
}

// unsupportedCapabilities gives every optional capability a NotSupported
// default; concrete volumes embed it and override what they implement.
type unsupportedCapabilities struct{}

func (unsupportedCapabilities) CreateFile(ctx context.Context, p string) error {
	return engineerr.New(engineerr.CodeNotSupported, "create_file not supported by this volume").
		WithComponent("volume")
}

func (unsupportedCapabilities) CreateDirectory(ctx context.Context, p string) error {
	return engineerr.New(engineerr.CodeNotSupported, "create_directory not supported by this volume").
		WithComponent("volume")
}

func (unsupportedCapabilities) Delete(ctx context.Context, p string) error {
	return engineerr.New(engineerr.CodeNotSupported, "delete not supported by this volume").
		WithComponent("volume")
}

func (unsupportedCapabilities) SupportsWatching() bool { return false }

// resolve strips a leading separator from p and joins it with root, the way
// an absolute-looking UI path is interpreted as relative to the volume.
func resolve(root, p string) string {
	trimmed := strings.TrimPrefix(p, "/")
	if trimmed == "" {
		return root
	}
	return filepath.Join(root, trimmed)
}
