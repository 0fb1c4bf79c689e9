package persist

import (
	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/bufsrc"
)

// SnapshotHeader reads a's current persistable state directly off a live
// Arena, so a host doesn't have to thread ElementSize/Capacity/FreeHead/
// UsedCapacity/AllocatedCount through HeaderOf by hand.
func SnapshotHeader[I arena.Unsigned](a *arena.Arena[I]) Header {
	return HeaderOf(a.ElementSize(), a.Capacity(), a.FreeHead(), a.UsedCapacity(), a.AllocatedCount())
}

// RestoreArena reinitializes a from h over src, the Header-shaped
// counterpart to arena.Arena.Restore for callers holding a Header decoded
// off a persisted image rather than its individual fields.
func RestoreArena[I arena.Unsigned](a *arena.Arena[I], src bufsrc.Source, h Header) error {
	return a.Restore(src, int(h.ElementSize), I(h.FreeHead), I(h.UsedCapacity), I(h.AllocatedCount))
}
