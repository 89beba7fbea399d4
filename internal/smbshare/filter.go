package smbshare

import (
	"strings"

	"github.com/duopane/engine/pkg/types"
)

// rawShare is what a transport (library session or tool fallback) hands
// back before filtering.
type rawShare struct {
	name    string
	comment string
	isDisk  bool
}

// filterShares drops hidden ($-suffixed) and non-disk shares (spec §4.8
// "Filter step").
func filterShares(raw []rawShare) []types.ShareInfo {
	out := make([]types.ShareInfo, 0, len(raw))
	for _, r := range raw {
		if strings.HasSuffix(r.name, "$") {
			continue
		}
		if !r.isDisk {
			continue
		}
		info := types.ShareInfo{Name: r.name, IsDisk: true}
		if r.comment != "" {
			c := r.comment
			info.Comment = &c
		}
		out = append(out, info)
	}
	return out
}
