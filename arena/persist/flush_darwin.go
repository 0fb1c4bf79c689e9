//go:build darwin

package persist

import "golang.org/x/sys/unix"

// flushRanges syncs the whole buffer: on Darwin, msync requires the
// address passed to match the original mmap address, so a sub-slice
// (whose base pointer differs) can't be flushed in isolation. The kernel
// only writes pages that are actually dirty, so this costs nothing beyond
// the syscall itself.
func (t *Tracker) flushRanges(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}
