//go:build windows

package dict

import "os"

// statIdentity has no portable (device, inode) pair on this platform; the
// cache falls back to keying by file path.
func statIdentity(fi os.FileInfo) (device, inode uint64, ok bool) {
	return 0, 0, false
}
