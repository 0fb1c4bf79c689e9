//go:build windows

package persist

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func (t *Tracker) flushRanges(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	for _, r := range t.coalesce() {
		start := int(r.Off)
		end := int(r.Off + r.Len)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			continue
		}
		addr := uintptr(unsafe.Pointer(&data[start]))
		if err := windows.FlushViewOfFile(addr, uintptr(end-start)); err != nil {
			return err
		}
	}
	return nil
}
