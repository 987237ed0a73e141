//go:build !windows

package dict

import (
	"os"
	"syscall"
)

// statIdentity extracts the (device, inode) pair backing fi, used as the
// canonical dictionary cache key so that two different paths resolving to
// the same file (hardlinks, bind mounts) share one cached load.
func statIdentity(fi os.FileInfo) (device, inode uint64, ok bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}
