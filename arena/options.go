package arena

import "github.com/indexedmem/idxpool/bufsrc"

// Options configures New and NewMT, the same plain-struct idiom the
// teacher uses for hive/builder.Options and hive/alloc.SizeClassConfig
// rather than chained functional-option closures.
type Options struct {
	// Capacity is the fixed slot count. Required; must be set before the
	// first Allocate and cannot change afterward.
	Capacity int

	// DeleteEnabled controls whether Deallocate recycles freed slots onto
	// the free list (true) or never recycles them (false). Arena still
	// rewinds to empty when its live count reaches zero either way.
	// Default: false
	DeleteEnabled bool

	// Source supplies the backing buffer, acquired lazily on the first
	// Allocate. Required.
	Source bufsrc.Source
}
