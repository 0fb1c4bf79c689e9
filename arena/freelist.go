package arena

import "sync/atomic"

// taggedHead packs a free-list head handle together with a stamp into one
// 64-bit word so it can be swapped atomically: a lone CAS on the handle
// alone can't tell "the head is still node 5" apart from "node 5 was
// popped, freed, and reallocated back onto the head" (the classic ABA
// hazard on a lock-free singly-linked list). The stamp is bumped on every
// successful pop, making the two states distinguishable. This mirrors
// indexed::ArrayArenaMT's LockFreeSList, which packs the same pair into a
// machine word sized to fit both fields.
type taggedHead struct {
	word atomic.Uint64
}

func pack(stamp uint32, head uint32) uint64 {
	return uint64(stamp)<<32 | uint64(head)
}

func unpack(w uint64) (stamp uint32, head uint32) {
	return uint32(w >> 32), uint32(w)
}

// freeList is the lock-free intrusive free list backing MTArena. Nodes are
// identified by 1-based handle (0 means "no node"); "next" pointers are
// threaded through the first sizeof(I) bytes of each freed slot, read and
// written through the supplied element accessor.
type freeList[I Unsigned] struct {
	head    taggedHead
	element func(h I) *I // returns the address of h's embedded "next" field
}

func newFreeList[I Unsigned](element func(h I) *I) *freeList[I] {
	return &freeList[I]{element: element}
}

// push returns h to the list. Safe to call concurrently with push and pop.
// Only pop bumps the stamp: the ABA hazard this guards against is a
// concurrent reader mid-dereference of a node that gets popped, freed,
// and reallocated back onto the head out from under it, and only a
// pop's CAS loop can observe that sequence.
func (f *freeList[I]) push(h I) {
	for {
		old := f.head.word.Load()
		stamp, head := unpack(old)
		*f.element(h) = I(head)
		next := pack(stamp, uint32(h))
		if f.head.word.CompareAndSwap(old, next) {
			return
		}
	}
}

// pop removes and returns a node, or 0 if the list is empty. Safe to call
// concurrently with push and pop.
func (f *freeList[I]) pop() I {
	for {
		old := f.head.word.Load()
		stamp, head := unpack(old)
		if head == 0 {
			return 0
		}
		next := *f.element(I(head))
		newWord := pack(stamp+1, uint32(next))
		if f.head.word.CompareAndSwap(old, newWord) {
			return I(head)
		}
	}
}

// reset empties the list without visiting nodes; callers must already know
// no reader can be mid-pop (single-writer reset path, e.g. after the last
// live slot is freed).
func (f *freeList[I]) reset() {
	f.head.word.Store(0)
}

// length walks the list for diagnostics only; not safe to call concurrently
// with push/pop on the same handles (the walk can race a pop that recycles
// a node it's still visiting).
func (f *freeList[I]) length() int {
	_, head := unpack(f.head.word.Load())
	n := 0
	for head != 0 {
		n++
		head = uint32(*f.element(I(head)))
	}
	return n
}
