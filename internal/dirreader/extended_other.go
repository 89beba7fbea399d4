//go:build !darwin

package dirreader

import (
	"context"

	"github.com/duopane/engine/pkg/types"
)

// extendedRead has no platform-extended metadata source outside darwin;
// every field comes back null as spec'd.
func extendedRead(_ context.Context, paths []string) []types.ExtendedMetadata {
	results := make([]types.ExtendedMetadata, len(paths))
	for i, p := range paths {
		results[i] = types.ExtendedMetadata{Path: p}
	}
	return results
}
