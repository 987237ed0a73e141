//go:build !windows

package dict

import (
	"os"

	"golang.org/x/sys/unix"
)

// withWriteLock holds an advisory exclusive lock on path for the duration
// of fn, per the documented cross-process save coordination: concurrent
// writers serialize on this lock, while readers that race a save are
// expected to re-merge once they observe a newer modification time.
func withWriteLock(path string, fn func() error) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		// No existing file to lock against yet (first save); proceed
		// unlocked rather than fail a save that creates the file.
		return fn()
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fn()
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	return fn()
}
