package volume

import (
	"context"
	"os"

	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/types"
)

// LocalVolume is a volume rooted at a real directory on the local POSIX
// filesystem; reads delegate to dirreader.Reader (spec §4.1).
type LocalVolume struct {
	unsupportedCapabilities
	root   string
	reader *dirreader.Reader
}

// NewLocalVolume returns a LocalVolume rooted at root.
func NewLocalVolume(root string) *LocalVolume {
	return &LocalVolume{root: root, reader: dirreader.NewReader()}
}

// ResolvePath exposes the real filesystem path backing p, so the listing
// cache can hand it to the watcher (spec §4.5) without the watcher needing
// to know about volume root resolution itself.
func (v *LocalVolume) ResolvePath(p string) string {
	return resolve(v.root, p)
}

func (v *LocalVolume) ListDirectory(ctx context.Context, p string) ([]types.FileEntry, error) {
	return v.reader.CoreRead(ctx, resolve(v.root, p))
}

func (v *LocalVolume) GetMetadata(ctx context.Context, p string) (types.FileEntry, error) {
	return v.reader.Stat(ctx, resolve(v.root, p))
}

func (v *LocalVolume) Exists(ctx context.Context, p string) bool {
	_, err := os.Lstat(resolve(v.root, p))
	return err == nil
}

func (v *LocalVolume) CreateFile(_ context.Context, p string) error {
	f, err := os.OpenFile(resolve(v.root, p), os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("volume").WithOperation("create_file").WithCause(err)
	}
	return f.Close()
}

func (v *LocalVolume) CreateDirectory(_ context.Context, p string) error {
	if err := os.Mkdir(resolve(v.root, p), 0755); err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("volume").WithOperation("create_directory").WithCause(err)
	}
	return nil
}

func (v *LocalVolume) Delete(_ context.Context, p string) error {
	if err := os.Remove(resolve(v.root, p)); err != nil {
		if os.IsNotExist(err) {
			return engineerr.New(engineerr.CodeNotFound, "path not found").
				WithComponent("volume").WithOperation("delete").WithCause(err)
		}
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("volume").WithOperation("delete").WithCause(err)
	}
	return nil
}

func (v *LocalVolume) SupportsWatching() bool { return true }
