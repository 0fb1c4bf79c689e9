//go:build !unix

package bufsrc

import (
	"fmt"
	"os"
)

// FileBacked falls back to a full read/write-back cycle where mmap isn't
// available: the whole file is read into memory on Acquire and written
// back on Release, same fallback the teacher's internal/mmfile used for
// non-unix platforms.
type FileBacked struct {
	path string
	buf  []byte
}

func NewFileBacked(path string) *FileBacked {
	return &FileBacked{path: path}
}

func (fb *FileBacked) Acquire(bytes int) ([]byte, error) {
	data, err := os.ReadFile(fb.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("bufsrc: read %s: %w", fb.path, err)
	}
	if len(data) < bytes {
		grown := make([]byte, bytes)
		copy(grown, data)
		data = grown
	}
	fb.buf = data[:bytes]
	return fb.buf, nil
}

func (fb *FileBacked) Base() []byte {
	return fb.buf
}

func (fb *FileBacked) Release() {
	if fb.buf == nil {
		return
	}
	_ = os.WriteFile(fb.path, fb.buf, 0o600)
	fb.buf = nil
}
