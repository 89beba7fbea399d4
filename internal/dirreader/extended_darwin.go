//go:build darwin

package dirreader

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

// extendedRead shells out to mdls, the way C8 falls back to smbutil: the
// platform-extended fields (date added, date last opened) live in
// Spotlight metadata with no cgo-free Go API, so the command-line tool is
// the idiomatic bridge rather than linking Cocoa via cgo.
func extendedRead(ctx context.Context, paths []string) []types.ExtendedMetadata {
	logger := log.WithComponent("dirreader")
	results := make([]types.ExtendedMetadata, len(paths))
	for i, p := range paths {
		results[i] = types.ExtendedMetadata{Path: p}
		addedAt, openedAt, err := mdlsDates(ctx, p)
		if err != nil {
			logger.Debug().Err(err).Str("path", p).Msg("mdls lookup failed")
			continue
		}
		results[i].AddedAt = addedAt
		results[i].OpenedAt = openedAt
	}
	return results
}

func mdlsDates(ctx context.Context, p string) (addedAt, openedAt *int64, err error) {
	cmd := exec.CommandContext(ctx, "mdls", "-name", "kMDItemDateAdded", "-name", "kMDItemLastUsedDate", "-raw", p)
	out, err := cmd.Output()
	if err != nil {
		return nil, nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return nil, nil, nil
	}
	return parseMdlsTimestamp(lines[0]), parseMdlsTimestamp(lines[1]), nil
}

// parseMdlsTimestamp parses mdls's "YYYY-MM-DD HH:MM:SS +0000" format into
// seconds since epoch; "(null)" and unparseable output both yield nil.
func parseMdlsTimestamp(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "(null)" {
		return nil
	}
	t, err := time.Parse("2006-01-02 15:04:05 -0700", raw)
	if err != nil {
		return nil
	}
	secs := t.Unix()
	return &secs
}
