package rpc

import (
	"os"
	"path/filepath"
	"strings"
)

// expandTilde expands a leading "~" or "~/" to the user's home directory
// before a path reaches the volume layer (spec §4.12).
func expandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
