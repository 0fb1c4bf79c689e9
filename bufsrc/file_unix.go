//go:build unix

package bufsrc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileBacked acquires its region by mmap'ing a file RW, the same technique
// the teacher's hive/loader_unix.go uses to open a hive in place. It exists
// to support the "zero-parse reload" path spec.md §6 calls out: an arena's
// buffer is positionally addressable, so a host that also persists
// elementSize/capacity/freeHead/usedCapacity alongside the file can reopen
// it here and hand the mapping straight back to the arena with no parsing.
type FileBacked struct {
	path string
	f    *os.File
	buf  []byte
}

// NewFileBacked prepares a Source backed by path. The file is created (and
// sized to at least the requested bytes) if it doesn't already exist.
func NewFileBacked(path string) *FileBacked {
	return &FileBacked{path: path}
}

func (fb *FileBacked) Acquire(bytes int) ([]byte, error) {
	f, err := os.OpenFile(fb.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("bufsrc: open %s: %w", fb.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.Size() < int64(bytes) {
		if err := f.Truncate(int64(bytes)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("bufsrc: truncate %s to %d: %w", fb.path, bytes, err)
		}
	}
	data, err := unix.Mmap(int(f.Fd()), 0, bytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("bufsrc: mmap %s: %w (%v)", fb.path, ErrOutOfMemory, err)
	}
	fb.f = f
	fb.buf = data
	return fb.buf, nil
}

func (fb *FileBacked) Base() []byte {
	return fb.buf
}

func (fb *FileBacked) Release() {
	if fb.buf != nil {
		_ = unix.Munmap(fb.buf)
		fb.buf = nil
	}
	if fb.f != nil {
		_ = fb.f.Close()
		fb.f = nil
	}
}
