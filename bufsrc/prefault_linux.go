//go:build linux

package bufsrc

import (
	"golang.org/x/sys/unix"
)

// madvisePopulateWrite isn't exported by golang.org/x/sys/unix on every
// supported kernel target yet; the teacher's hive/mmap_safety.go hits the
// same gap and defines the constant locally (available since Linux 5.14).
const madvisePopulateWrite = 23

func madvisePopulate(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Madvise(data, madvisePopulateWrite); err != nil {
		// Older kernel: fall back to touching every page manually.
		return touchPages(data)
	}
	return nil
}

func touchPages(data []byte) error {
	pageSize := unix.Getpagesize()
	for i := 0; i < len(data); i += pageSize {
		data[i] = data[i]
	}
	return nil
}
