//go:build !darwin

package smbshare

import (
	"context"
	"errors"
)

// toolFallback has no platform share-listing tool to shell out to outside
// the macOS target; it always reports a protocol error (spec §4.8
// "Non-platform targets return a protocol error").
func toolFallback(_ context.Context, _ string) ([]rawShare, error) {
	return nil, errors.New("tool fallback not available on this platform")
}
