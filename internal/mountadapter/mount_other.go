//go:build !darwin

package mountadapter

import (
	"context"

	"github.com/duopane/engine/internal/engineerr"
)

// platformMount has no native mount facility to call outside the macOS
// target.
func platformMount(_ context.Context, _, _, _, _ string) (MountResult, error) {
	return MountResult{}, engineerr.New(engineerr.CodeProtocolError, "mounting is only implemented for the macOS target").
		WithComponent("mountadapter").WithOperation("mount")
}
