package arena

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/internal/assert"
	"github.com/indexedmem/idxpool/internal/obslog"
)

// MTArena is the concurrent counterpart to Arena (spec.md §4.C), grounded
// on indexed::ArrayArenaMT: many goroutines may Allocate/Deallocate/
// GetElement concurrently without external locking. The backing buffer is
// acquired exactly once, the first time any goroutine allocates past the
// free list; every other racing allocator blocks on that single
// acquisition via acquireOnce, and if it fails the failure is latched so
// every subsequent Allocate returns the same error instead of retrying a
// doomed acquisition.
type MTArena[I Unsigned] struct {
	src bufsrc.Source

	capacity           I
	elementSizeInIndex uint32 // written once, under acquireOnce
	doDelete           bool

	free *freeList[I]

	usedCapacity   atomic.Uint64 // high-water mark of slots ever handed out
	allocatedCount atomic.Int64  // live slot count

	acquireOnce sync.Once
	acquireErr  error

	tracker DirtyTracker // optional; see AttachTracker
}

// NewMT creates an MTArena per opts.
func NewMT[I Unsigned](opts Options) (*MTArena[I], error) {
	ceiling := MaxArenaCapacity[I](false)
	if opts.Capacity < 0 || uint64(opts.Capacity) >= uint64(ceiling) {
		return nil, &Error{Kind: KindCapacityTooLarge, Msg: fmt.Sprintf("arena: capacity %d too large for %d-bit handle", opts.Capacity, Width[I]())}
	}
	a := &MTArena[I]{capacity: I(opts.Capacity), doDelete: opts.DeleteEnabled, src: opts.Source}
	a.free = newFreeList[I](a.nextField)
	return a, nil
}

func (a *MTArena[I]) nextField(h I) *I {
	return (*I)(a.GetElement(h))
}

// Begin returns the start of the backing buffer, or nil if it hasn't been
// acquired yet. Safe to call concurrently with Allocate.
func (a *MTArena[I]) Begin() []byte {
	if a.src == nil {
		return nil
	}
	return a.src.Base()
}

// Capacity returns the arena's slot capacity.
func (a *MTArena[I]) Capacity() I { return a.capacity }

// UsedCapacity returns the high-water mark of slots ever handed out.
func (a *MTArena[I]) UsedCapacity() I { return I(a.usedCapacity.Load()) }

// AllocatedCount returns the number of currently live slots.
func (a *MTArena[I]) AllocatedCount() I { return I(a.allocatedCount.Load()) }

// ElementSize returns the byte size of every slot, 0 before the first
// allocation.
func (a *MTArena[I]) ElementSize() int {
	var zero I
	return int(atomic.LoadUint32(&a.elementSizeInIndex)) * int(unsafe.Sizeof(zero))
}

// DeleteIsEnabled reports whether Deallocate recycles slots.
func (a *MTArena[I]) DeleteIsEnabled() bool { return a.doDelete }

// AttachTracker registers t to receive the byte ranges Deallocate writes
// while pushing a freed slot onto the free list. Pass nil to detach.
// Attach before any goroutine starts calling Allocate/Deallocate; the
// field itself is not synchronized, matching src's construction-time-only
// contract.
func (a *MTArena[I]) AttachTracker(t DirtyTracker) { a.tracker = t }

// Tracker returns the currently attached DirtyTracker, or nil.
func (a *MTArena[I]) Tracker() DirtyTracker { return a.tracker }

// FreeListLength walks the free list for diagnostics. Not safe to call
// concurrently with Allocate/Deallocate; intended for use once an arena
// has quiesced, e.g. from Reset's invariant check below.
func (a *MTArena[I]) FreeListLength() int { return a.free.length() }

func (a *MTArena[I]) offsetOf(h I) int {
	begin := a.Begin()
	return int(uintptr(a.GetElement(h)) - uintptr(unsafe.Pointer(&begin[0])))
}

// GetElement returns the address of the slot h refers to. Precondition
// (debug-only): 1 <= h <= UsedCapacity().
func (a *MTArena[I]) GetElement(h I) unsafe.Pointer {
	assert.Check(h > 0 && uint64(h) <= a.usedCapacity.Load(), "arena: handle out of range in GetElement")
	begin := a.Begin()
	off := uintptr(h-1) * uintptr(a.ElementSize())
	return unsafe.Pointer(&begin[off])
}

// PointerTo converts an address inside the buffer back into the handle
// that would dereference it.
func (a *MTArena[I]) PointerTo(ptr unsafe.Pointer) I {
	begin := a.Begin()
	offset := uintptr(ptr) - uintptr(unsafe.Pointer(&begin[0]))
	elemSize := uintptr(a.ElementSize())
	pos := I(offset / elemSize)
	assert.Check(uintptr(pos)*elemSize == offset,
		"arena: PointerTo called on an address that isn't slot-aligned")
	return pos + 1
}

// ensureBuffer acquires the backing buffer on the first call across all
// goroutines; every concurrent and subsequent caller observes the same
// result, success or failure, without re-attempting acquisition.
func (a *MTArena[I]) ensureBuffer(size int) error {
	a.acquireOnce.Do(func() {
		var zero I
		indexSize := int(unsafe.Sizeof(zero))
		assert.Check(size%indexSize == 0, "arena: elementSize must be a multiple of the handle width")
		_, err := a.src.Acquire(size * int(a.capacity))
		if err != nil {
			a.acquireErr = outOfMemory(err)
			return
		}
		atomic.StoreUint32(&a.elementSizeInIndex, uint32(size/indexSize))
	})
	return a.acquireErr
}

// Allocate returns a handle to a newly reserved slot, popping the free
// list first and falling back to bumping the high-water mark. Safe to call
// from many goroutines concurrently.
func (a *MTArena[I]) Allocate(size int) (I, error) {
	if h := a.free.pop(); h != 0 {
		a.allocatedCount.Add(1)
		return h, nil
	}

	if err := a.ensureBuffer(size); err != nil {
		return 0, err
	}
	assert.Check(a.ElementSize() == size, "arena: Allocate size doesn't match the arena's locked elementSize")

	for {
		used := a.usedCapacity.Load()
		if I(used) >= a.capacity {
			return 0, outOfMemory(nil)
		}
		if a.usedCapacity.CompareAndSwap(used, used+1) {
			a.allocatedCount.Add(1)
			return I(used + 1), nil
		}
	}
}

// Deallocate releases the slot h refers to, pushing it back onto the free
// list if recycling is enabled. Safe to call from many goroutines
// concurrently, including concurrently with Allocate. Unlike
// Arena.Deallocate, it never resets the arena when the live count reaches
// zero.
func (a *MTArena[I]) Deallocate(h I, size int) {
	if a.doDelete {
		if a.tracker != nil {
			a.tracker.Add(a.offsetOf(h), size)
		}
		a.free.push(h)
	}
	a.allocatedCount.Add(-1)
}

// Reset clears the free list and rewinds the high-water mark. Callers must
// guarantee no other goroutine is concurrently allocating, deallocating,
// or holding outstanding handles; Reset itself does no synchronization
// beyond the atomics it touches. Unlike Arena, MTArena never resets
// itself when its live count reaches zero; an explicit Reset (or
// FreeMemory) is the only way to rewind it.
func (a *MTArena[I]) Reset() {
	assert.Warn(a.allocatedCount.Load() == 0, "arena: Reset called while slots are still allocated")
	if a.doDelete {
		outstanding := a.usedCapacity.Load() - uint64(a.allocatedCount.Load())
		assert.Warn(uint64(a.FreeListLength()) == outstanding,
			"arena: free list length doesn't match outstanding recycled capacity")
	}
	a.free.reset()
	a.usedCapacity.Store(0)
	a.allocatedCount.Store(0)
}

// FreeMemory resets the arena and releases its buffer, allowing a later
// allocation to re-acquire one. Callers must guarantee no concurrent
// access is in flight.
func (a *MTArena[I]) FreeMemory() {
	atomic.StoreUint32(&a.elementSizeInIndex, 0)
	a.Reset()
	a.acquireOnce = sync.Once{}
	a.acquireErr = nil
	if a.src != nil {
		a.src.Release()
	}
}

// Close is a convenience alias for FreeMemory, logging a warning first if
// slots are still live.
func (a *MTArena[I]) Close() {
	if a.allocatedCount.Load() != 0 {
		obslog.L.Warn("arena closed with live slots", "allocated", a.allocatedCount.Load())
	}
	a.FreeMemory()
}
