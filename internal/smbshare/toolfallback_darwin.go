//go:build darwin

package smbshare

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strings"
)

var columnSplit = regexp.MustCompile(`\s{2,}`)

// toolFallback shells out to smbutil view, the macOS command-line share
// lister, when the library path returns a protocol error or an empty
// authenticated result (spec §4.8 "Tool fallback").
func toolFallback(ctx context.Context, serverName string) ([]rawShare, error) {
	cmd := exec.CommandContext(ctx, "smbutil", "view", "//"+serverName)
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return parseSmbutilView(string(out)), nil
}

// parseSmbutilView parses smbutil view's tabular "Share  Type  Comment"
// output, skipping the header and the dashed divider line beneath it.
func parseSmbutilView(output string) []rawShare {
	var shares []rawShare
	scanner := bufio.NewScanner(strings.NewReader(output))
	pastDivider := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "---") {
			pastDivider = true
			continue
		}
		if !pastDivider {
			continue
		}
		fields := columnSplit.Split(trimmed, -1)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		isDisk := strings.EqualFold(fields[1], "disk")
		comment := ""
		if len(fields) >= 3 {
			comment = fields[2]
		}
		shares = append(shares, rawShare{name: name, comment: comment, isDisk: isDisk})
	}
	return shares
}
