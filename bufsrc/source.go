package bufsrc

import "errors"

// ErrOutOfMemory is returned by Acquire when the source cannot satisfy the
// request (allocation failure, or requested size exceeds a fixed buffer).
var ErrOutOfMemory = errors.New("bufsrc: out of memory")

// Source acquires and releases exactly one contiguous byte region. An Arena
// owns exactly one Source instance (spec.md §4.A).
type Source interface {
	// Acquire obtains a region of the requested size. Called at most once
	// per Source instance between Release calls.
	Acquire(bytes int) ([]byte, error)
	// Base returns the start of the acquired region, or nil if Acquire has
	// not succeeded (or Release has since been called).
	Base() []byte
	// Release drops the region. No-op if nothing is held.
	Release()
}
