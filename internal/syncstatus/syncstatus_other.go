//go:build !darwin

package syncstatus

import "github.com/duopane/engine/pkg/types"

// classifyPath has no cloud-file concept to probe outside of macOS's
// iCloud/dataless-file mechanism; every path classifies Unknown.
func classifyPath(_ string) types.SyncStatus {
	return types.SyncStatusUnknown
}
