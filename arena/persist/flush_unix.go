//go:build linux || freebsd

package persist

import "golang.org/x/sys/unix"

// flushRanges flushes individual dirty ranges; msync handles sub-slices
// correctly on Linux and FreeBSD.
func (t *Tracker) flushRanges(data []byte) error {
	for _, r := range t.coalesce() {
		start := int(r.Off)
		end := int(r.Off + r.Len)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}
