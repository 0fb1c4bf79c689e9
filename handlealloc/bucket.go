package handlealloc

// BucketAllocator is the native-heap fallback slot host hash containers
// use for their bucket array, instead of a HandleAllocator (spec.md §4.E,
// §9 "Rebind-by-type"). Bucket arrays are resized wholesale and can
// exceed any single slab slot, which the arena's fixed elementSize can't
// accommodate; routing them through plain Go slices keeps the arena
// reserved for single-node allocations, where its handle-shrinking
// benefit actually applies.
type BucketAllocator[T any] struct{}

// Allocate returns a freshly zeroed bucket array of length n.
func (BucketAllocator[T]) Allocate(n int) []T {
	return make([]T, n)
}

// Deallocate is a no-op: Go's garbage collector reclaims the slice once
// the host container drops its last reference. Present only so
// BucketAllocator mirrors HandleAllocator's allocate/deallocate shape for
// host containers that select one or the other generically.
func (BucketAllocator[T]) Deallocate(_ []T) {}

// Grow returns a new bucket array of length n with old's contents copied
// in, for hash containers that resize in place rather than rebuilding.
func (BucketAllocator[T]) Grow(old []T, n int) []T {
	grown := make([]T, n)
	copy(grown, old)
	return grown
}
