//go:build !windows

package dirreader

import (
	"os"
	"syscall"
)

// rawStatInfo pulls uid/gid/permission bits out of a FileInfo's platform
//-specific Sys() value. On unix that's a *syscall.Stat_t.
func rawStatInfo(info os.FileInfo) (permissions uint32, uid, gid uint32, ok bool) {
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return 0, 0, 0, false
	}
	return uint32(info.Mode().Perm()), st.Uid, st.Gid, true
}
