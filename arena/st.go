package arena

import (
	"fmt"
	"unsafe"

	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/internal/assert"
	"github.com/indexedmem/idxpool/internal/obslog"
)

// Arena is a fixed-capacity, fixed-slot-size single-threaded slab allocator
// (spec.md §4.B), the Go counterpart of indexed::ArrayArena. It hands out
// dense 1-based handles of type I, recycling freed slots through an
// embedded singly-linked free list threaded through the slots themselves.
//
// Not safe for concurrent use; see MTArena.
type Arena[I Unsigned] struct {
	src bufsrc.Source

	capacity           I
	elementSizeInIndex uint16 // elementSize / sizeof(I)
	doDelete           bool

	nextFree       I // head of the embedded free list; 0 = empty
	allocatedCount I // live slot count
	usedCapacity   I // high-water mark of slots ever handed out

	tracker DirtyTracker // optional; see AttachTracker
}

// New creates an Arena per opts. The backing buffer is not acquired until
// the first Allocate call.
func New[I Unsigned](opts Options) (*Arena[I], error) {
	a := &Arena[I]{doDelete: opts.DeleteEnabled, src: opts.Source}
	if err := a.SetCapacity(opts.Capacity); err != nil {
		return nil, err
	}
	return a, nil
}

// Begin returns the start of the backing buffer, or nil if it hasn't been
// acquired yet.
func (a *Arena[I]) Begin() []byte {
	if a.src == nil {
		return nil
	}
	return a.src.Base()
}

// End returns the address just past the backing buffer.
func (a *Arena[I]) End() []byte {
	b := a.Begin()
	if b == nil {
		return nil
	}
	return b[len(b):]
}

// Capacity returns the arena's slot capacity.
func (a *Arena[I]) Capacity() I { return a.capacity }

// UsedCapacity returns the high-water mark of slots ever handed out.
func (a *Arena[I]) UsedCapacity() I { return a.usedCapacity }

// AllocatedCount returns the number of currently live slots.
func (a *Arena[I]) AllocatedCount() I { return a.allocatedCount }

// ElementSize returns the byte size of every slot, 0 before the first
// allocation (the size is locked in on first use).
func (a *Arena[I]) ElementSize() int {
	var zero I
	return int(a.elementSizeInIndex) * int(unsafe.Sizeof(zero))
}

// FreeHead returns the head of the embedded free list (0 = empty), for
// hosts persisting the arena's state alongside its buffer (spec.md §6
// "zero-parse reload").
func (a *Arena[I]) FreeHead() I { return a.nextFree }

// AttachTracker registers t to receive the byte ranges Deallocate writes
// while threading the free list through a freed slot. Pass nil to detach.
func (a *Arena[I]) AttachTracker(t DirtyTracker) { a.tracker = t }

// Tracker returns the currently attached DirtyTracker, or nil.
func (a *Arena[I]) Tracker() DirtyTracker { return a.tracker }

func (a *Arena[I]) offsetOf(h I) int {
	begin := a.Begin()
	return int(uintptr(a.GetElement(h)) - uintptr(unsafe.Pointer(&begin[0])))
}

// Restore reinitializes an arena whose buffer already holds valid slot
// data and free-list linkage read back from a prior persisted image,
// instead of starting from an empty buffer via the normal
// acquire-on-first-allocate path. The caller is responsible for having
// already pointed src at that image (see bufsrc.FileBacked).
func (a *Arena[I]) Restore(src bufsrc.Source, elementSize int, freeHead, usedCapacity, allocatedCount I) error {
	var zero I
	indexSize := int(unsafe.Sizeof(zero))
	if elementSize%indexSize != 0 {
		return &Error{Kind: KindCapacityTooLarge, Msg: "arena: Restore elementSize must be a multiple of the handle width"}
	}
	if usedCapacity > a.capacity {
		return &Error{Kind: KindCapacityTooLarge, Msg: "arena: Restore usedCapacity exceeds capacity"}
	}
	buf, err := src.Acquire(elementSize * int(a.capacity))
	if err != nil {
		return outOfMemory(err)
	}
	_ = buf
	a.src = src
	a.elementSizeInIndex = uint16(elementSize / indexSize)
	a.nextFree = freeHead
	a.usedCapacity = usedCapacity
	a.allocatedCount = allocatedCount
	return nil
}

// DeleteIsEnabled reports whether deallocate() recycles slots.
func (a *Arena[I]) DeleteIsEnabled() bool { return a.doDelete }

// EnableDelete toggles the recycling policy. When disabled, Deallocate only
// decrements the live count (still auto-resetting the arena when it reaches
// zero) and never puts the slot on the free list.
func (a *Arena[I]) EnableDelete(enable bool) { a.doDelete = enable }

// SetCapacity sets the arena's slot capacity. Must be called before the
// first allocation; fails with ErrAllocationInProgress otherwise, or
// ErrCapacityTooLarge if capacity can't be addressed by I under the
// one-tag-bit (simple) encoding ceiling. A tighter, encoding-aware ceiling
// is additionally enforced by config.Config at construction time.
func (a *Arena[I]) SetCapacity(capacity int) error {
	ceiling := MaxArenaCapacity[I](false)
	if capacity < 0 || I(capacity) >= ceiling || uint64(capacity) >= uint64(ceiling) {
		return &Error{Kind: KindCapacityTooLarge, Msg: fmt.Sprintf("arena: capacity %d too large for %d-bit handle", capacity, Width[I]())}
	}
	if a.Begin() != nil {
		return ErrAllocationInProgress
	}
	a.capacity = I(capacity)
	return nil
}

// PointerTo converts an address inside the buffer back into the handle
// that would dereference it. Precondition (debug-only): ptr must be
// slot-aligned.
func (a *Arena[I]) PointerTo(ptr unsafe.Pointer) I {
	begin := a.Begin()
	offset := uintptr(ptr) - uintptr(unsafe.Pointer(&begin[0]))
	elemSize := uintptr(a.ElementSize())
	pos := I(offset / elemSize)
	assert.Check(uintptr(pos)*elemSize == offset,
		"arena: PointerTo called on an address that isn't slot-aligned")
	return pos + 1
}

// GetElement returns the address of the slot h refers to. Precondition
// (debug-only): 1 <= h <= usedCapacity.
func (a *Arena[I]) GetElement(h I) unsafe.Pointer {
	assert.Check(h > 0 && h <= a.usedCapacity, "arena: handle out of range in GetElement")
	begin := a.Begin()
	off := uintptr(h-1) * uintptr(a.ElementSize())
	return unsafe.Pointer(&begin[off])
}

// Allocate returns a handle to a newly reserved slot. size must equal the
// arena's locked elementSize, or this may be the first allocation (which
// locks elementSize to size). size must be a multiple of sizeof(I) so the
// free list can thread its "next" pointer through the slot.
func (a *Arena[I]) Allocate(size int) (I, error) {
	var zero I
	indexSize := int(unsafe.Sizeof(zero))
	assert.Check(a.ElementSize() == size || a.ElementSize() == 0,
		"arena: Allocate size doesn't match the arena's locked elementSize")

	var index I
	if a.nextFree != 0 {
		index = a.nextFree
		next := *(*I)(a.GetElement(index))
		a.nextFree = next
	} else {
		if a.usedCapacity == a.capacity {
			return 0, outOfMemory(nil)
		}
		if a.Begin() == nil {
			assert.Check(size%indexSize == 0, "arena: elementSize must be a multiple of the handle width")
			buf, err := a.src.Acquire(size * int(a.capacity))
			if err != nil {
				return 0, outOfMemory(err)
			}
			_ = buf
			a.elementSizeInIndex = uint16(size / indexSize)
		}
		a.usedCapacity++
		index = a.usedCapacity
	}
	a.allocatedCount++
	return index, nil
}

// Deallocate releases the slot h refers to. If this brings the live count
// to zero, the arena auto-resets (spec.md §4.B "Edge cases": this is a
// deliberate optimization, not a bug — see DESIGN.md for the ST/MT
// asymmetry this implies).
func (a *Arena[I]) Deallocate(h I, size int) {
	a.allocatedCount--
	if a.allocatedCount == 0 {
		a.Reset()
		return
	}
	if a.doDelete {
		if a.tracker != nil {
			a.tracker.Add(a.offsetOf(h), size)
		}
		*(*I)(a.GetElement(h)) = a.nextFree
		a.nextFree = h
	}
}

// Reset clears the free list and rewinds the high-water mark, keeping the
// buffer. Callers must guarantee no outstanding handles reference the old
// state; this is not checked outside debug builds.
func (a *Arena[I]) Reset() {
	assert.Warn(a.allocatedCount == 0, "arena: Reset called while slots are still allocated")
	a.nextFree = 0
	a.usedCapacity = 0
	a.allocatedCount = 0
}

// FreeMemory resets the arena and releases its buffer. The next allocation
// re-acquires a buffer via the Source and re-locks elementSize.
func (a *Arena[I]) FreeMemory() {
	a.elementSizeInIndex = 0
	a.Reset()
	if a.src != nil {
		a.src.Release()
	}
}

// Close is a convenience alias for FreeMemory, logging a warning first if
// slots are still live — the Go analog of ArrayArena's destructor warning.
func (a *Arena[I]) Close() {
	if a.allocatedCount != 0 {
		obslog.L.Warn("arena closed with live slots", "allocated", a.allocatedCount)
	}
	a.FreeMemory()
}
