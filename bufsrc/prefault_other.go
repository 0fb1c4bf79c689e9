//go:build unix && !linux

package bufsrc

import "golang.org/x/sys/unix"

// madvisePopulate has no portable equivalent outside Linux 5.14+; touch
// every page manually so a misconfigured mapping fails here instead of
// inside the arena's bump-pointer loop.
func madvisePopulate(data []byte) error {
	pageSize := unix.Getpagesize()
	for i := 0; i < len(data); i += pageSize {
		data[i] = data[i]
	}
	return nil
}
