//go:build windows

package dirreader

import "os"

// rawStatInfo has no uid/gid concept on Windows; permissions fall back to
// the portable bits Go's os package synthesizes from file attributes.
func rawStatInfo(info os.FileInfo) (permissions uint32, uid, gid uint32, ok bool) {
	return uint32(info.Mode().Perm()), 0, 0, true
}
