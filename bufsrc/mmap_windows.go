//go:build windows

package bufsrc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Mmap acquires anonymous, page-granular memory via VirtualAlloc
// (MEM_COMMIT|MEM_RESERVE, PAGE_READWRITE) — the Windows counterpart of the
// unix MAP_ANON mapping, following the same "call the real platform API
// through golang.org/x/sys/windows" convention the teacher uses in
// hive/dirty/flush_windows.go for FlushViewOfFile/FlushFileBuffers.
type Mmap struct {
	addr uintptr
	buf  []byte
}

// NewMmap returns a Source with no region committed yet.
func NewMmap() *Mmap {
	return &Mmap{}
}

func (m *Mmap) Acquire(bytes int) ([]byte, error) {
	if bytes <= 0 {
		bytes = 1
	}
	size := roundUpPage(bytes, pageSize())
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("bufsrc: VirtualAlloc %d bytes: %w (%v)", size, ErrOutOfMemory, err)
	}
	m.addr = addr
	m.buf = unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return m.buf, nil
}

func (m *Mmap) Base() []byte {
	return m.buf
}

func (m *Mmap) Release() {
	if m.addr == 0 {
		return
	}
	_ = windows.VirtualFree(m.addr, 0, windows.MEM_RELEASE)
	m.addr = 0
	m.buf = nil
}

func roundUpPage(n, pageSize int) int {
	if n%pageSize == 0 {
		return n
	}
	return (n/pageSize + 1) * pageSize
}

func pageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.PageSize)
}
