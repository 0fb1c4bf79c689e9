//go:build unix

package bufsrc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap acquires its region via an anonymous, page-granular mapping
// (MAP_ANON|MAP_SHARED), the Go analog of indexed::MmapAlloc's
// boost::interprocess::anonymous_shared_memory. Grounded on the teacher's
// internal/mmfile.Map and hive/mmap_safety.go's pre-fault strategy: since
// the arena then touches every byte linearly as it bumps usedCapacity, a
// single MADV_POPULATE_WRITE call up front turns any SIGBUS into a
// reportable error at acquire time instead of a crash deep in allocate().
type Mmap struct {
	buf []byte
}

// NewMmap returns a Source with no region mapped yet.
func NewMmap() *Mmap {
	return &Mmap{}
}

func (m *Mmap) Acquire(bytes int) ([]byte, error) {
	if bytes <= 0 {
		bytes = 1
	}
	size := roundUpPage(bytes, unix.Getpagesize())
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("bufsrc: mmap %d bytes: %w (%v)", size, ErrOutOfMemory, err)
	}
	if err := prefault(data); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("bufsrc: mmap pre-fault: %w (%v)", ErrOutOfMemory, err)
	}
	m.buf = data
	return m.buf, nil
}

func (m *Mmap) Base() []byte {
	return m.buf
}

func (m *Mmap) Release() {
	if m.buf == nil {
		return
	}
	_ = unix.Munmap(m.buf)
	m.buf = nil
}

func roundUpPage(n, pageSize int) int {
	if n%pageSize == 0 {
		return n
	}
	return (n/pageSize + 1) * pageSize
}

// prefault tries MADV_POPULATE_WRITE (Linux 5.14+) to fault every page in
// immediately, falling back to a manual touch pass elsewhere; see
// prefault_linux.go / prefault_other.go.
func prefault(data []byte) error {
	return madvisePopulate(data)
}
