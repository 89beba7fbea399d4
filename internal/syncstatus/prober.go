// Package syncstatus classifies cloud-storage sync state per path (spec
// §4.6): synced, online-only (dataless stub), uploading, downloading, or
// unknown when the platform has no cloud-file concept or the probe fails.
package syncstatus

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/duopane/engine/pkg/types"
)

// Prober classifies paths. The zero value is ready to use.
type Prober struct{}

// NewProber returns a ready Prober.
func NewProber() *Prober {
	return &Prober{}
}

// Classify runs classifyPath across paths using a worker pool sized to
// GOMAXPROCS, the data-parallel execution spec §4.6 requires. It never
// returns an error: a failed probe classifies that single path Unknown
// rather than failing the batch.
func (p *Prober) Classify(ctx context.Context, paths []string) map[string]types.SyncStatus {
	return p.ClassifyWithConcurrency(ctx, paths, runtime.GOMAXPROCS(0))
}

// ClassifyWithConcurrency is the thread-count-configurable variant spec
// §4.6 calls out for benchmarking; concurrency <= 0 falls back to
// GOMAXPROCS.
func (p *Prober) ClassifyWithConcurrency(ctx context.Context, paths []string, concurrency int) map[string]types.SyncStatus {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]types.SyncStatus, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = types.SyncStatusUnknown
				return nil
			default:
			}
			results[i] = classifyPath(path)
			return nil
		})
	}
	// classifyPath never errors; Wait only blocks until all goroutines exit.
	_ = g.Wait()

	out := make(map[string]types.SyncStatus, len(paths))
	for i, path := range paths {
		out[path] = results[i]
	}
	return out
}
