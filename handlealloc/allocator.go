// Package handlealloc implements Component E: the allocator adapter that
// presents an arena+config pair to host node-based containers as a
// single-slot allocator whose pointer type is a small integer handle
// instead of a machine pointer. This plays the role indexed::Allocator<T>
// plays in the original design.
//
// Host containers needing a resizable bucket array (hash maps) use
// BucketAllocator instead: the original design's template-rebind trick
// for swapping in a native allocator for bucket types has no clean Go
// generics equivalent, so per spec.md §9's own suggested redesign, the
// bucket slot is a separate type the host picks explicitly rather than
// something HandleAllocator produces via rebind.
package handlealloc

import (
	"fmt"
	"unsafe"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/ptr"
)

// Arena is the subset of arena.Arena / arena.MTArena a HandleAllocator
// forwards single-slot requests to.
type Arena[I arena.Unsigned] interface {
	Allocate(size int) (I, error)
	Deallocate(h I, size int)
}

// ContainerBaseSetter is implemented by config.Config; HandleAllocator
// calls it through Bind when constructed with the container-following
// policy enabled.
type ContainerBaseSetter interface {
	SetContainerBase(addr unsafe.Pointer) error
}

// HandleAllocator presents (arena, config) as a node allocator for T,
// handing out ptr.Pointer[T, I] instead of *T (spec.md §4.E).
type HandleAllocator[T any, I arena.Unsigned] struct {
	a   Arena[I]
	cfg ptr.Translator[I]

	followContainer bool
}

// New binds a HandleAllocator to the given arena and config. When follow
// is true, callers must invoke Bind on construction, copy, move, and
// assignment of the host container — the Go counterpart of
// assignContainerFollowingAllocator (spec.md §4.E). Intrusive containers
// that hold their list head directly should call cfg.SetContainerBase
// themselves instead and pass follow=false here.
func New[T any, I arena.Unsigned](a Arena[I], cfg ptr.Translator[I], follow bool) *HandleAllocator[T, I] {
	return &HandleAllocator[T, I]{a: a, cfg: cfg, followContainer: follow}
}

// Bind publishes owner as the config's container base, if this allocator
// was constructed with the container-following policy and its config
// implements ContainerBaseSetter. No-op otherwise. Host node-based
// containers that embed their sentinel node in their own storage call
// this on construction, copy, move, and assignment, passing their own
// address.
func (h *HandleAllocator[T, I]) Bind(owner unsafe.Pointer) error {
	if !h.followContainer {
		return nil
	}
	setter, ok := h.cfg.(ContainerBaseSetter)
	if !ok {
		return nil
	}
	return setter.SetContainerBase(owner)
}

func sizeofT[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Allocate reserves one slot for a T and returns its handle. n must be 1;
// the allocator has no array-allocation mode (spec.md §1 Non-goals).
func (h *HandleAllocator[T, I]) Allocate(n int) (ptr.Pointer[T, I], error) {
	if n != 1 {
		return ptr.Pointer[T, I]{}, fmt.Errorf("handlealloc: Allocate(%d): only single-slot allocation is supported", n)
	}
	handle, err := h.a.Allocate(sizeofT[T]())
	if err != nil {
		return ptr.Pointer[T, I]{}, err
	}
	return ptr.FromHandle[T, I](handle), nil
}

// Deallocate releases the slot p refers to. n must be 1.
func (h *HandleAllocator[T, I]) Deallocate(p ptr.Pointer[T, I], n int) {
	if n != 1 {
		panic(fmt.Sprintf("handlealloc: Deallocate(_, %d): only single-slot allocation is supported", n))
	}
	h.a.Deallocate(p.Handle(), sizeofT[T]())
}

// Equal reports whether h and other forward to the same arena. Host
// containers use this to decide whether two allocator instances (e.g.
// after a copy) can service each other's nodes interchangeably.
func (h *HandleAllocator[T, I]) Equal(other *HandleAllocator[T, I]) bool {
	return h.a == other.a
}

// FollowsContainer reports whether this allocator was constructed with
// the container-following policy enabled.
func (h *HandleAllocator[T, I]) FollowsContainer() bool { return h.followContainer }

// Config returns the allocator's bound config, for callers that need to
// dereference a Pointer this allocator produced.
func (h *HandleAllocator[T, I]) Config() ptr.Translator[I] { return h.cfg }
