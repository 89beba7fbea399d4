// Package mountadapter wraps the platform's synchronous share-mount call
// behind a blocking worker with an outer timeout (spec §4.11).
package mountadapter

import (
	"context"
	"time"

	"github.com/duopane/engine/internal/engineerr"
)

const mountTimeout = 20 * time.Second

// MountResult is the success payload of mount_network_share.
type MountResult struct {
	MountPath      string
	AlreadyMounted bool
}

// Adapter mounts network shares. The zero value is ready to use.
type Adapter struct{}

// NewAdapter returns a ready Adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

type mountOutcome struct {
	result MountResult
	err    error
}

// Mount runs the platform mount call on a blocking worker with a 20 s
// outer timeout. If ctx is cancelled by the caller before the worker
// finishes, the result is Cancelled; if the 20 s deadline this method
// itself imposes elapses first, the result is Timeout.
func (a *Adapter) Mount(ctx context.Context, server, share, username, password string) (MountResult, error) {
	if ctx.Err() != nil {
		return MountResult{}, engineerr.New(engineerr.CodeCancelled, "mount cancelled").
			WithComponent("mountadapter").WithOperation("mount")
	}

	mountCtx, cancel := context.WithTimeout(ctx, mountTimeout)
	defer cancel()

	done := make(chan mountOutcome, 1)
	go func() {
		result, err := platformMount(mountCtx, server, share, username, password)
		done <- mountOutcome{result, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-mountCtx.Done():
		if ctx.Err() != nil {
			return MountResult{}, engineerr.New(engineerr.CodeCancelled, "mount cancelled").
				WithComponent("mountadapter").WithOperation("mount")
		}
		return MountResult{}, engineerr.New(engineerr.CodeTimeout, "mount timed out").
			WithComponent("mountadapter").WithOperation("mount")
	}
}
