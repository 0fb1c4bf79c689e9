// Package arena implements the two slab allocators at the core of an
// indexed-pointer allocator (spec.md §4.B, §4.C): Arena, a single-threaded
// bump/free-list slab grounded on indexed::ArrayArena, and MTArena, its
// lock-free concurrent counterpart grounded on indexed::ArrayArenaMT. Both
// hand out dense 1-based handles of a generic unsigned width I instead of
// pointers, recycling freed slots through a list threaded directly through
// the slot bytes rather than through any side allocation.
//
// Arena and MTArena acquire their backing region from a bufsrc.Source on
// first use and never resize it; capacity cannot change while the buffer
// is held (Arena.SetCapacity may change it before that; MTArena's is set
// at construction). Neither
// type understands handle tagging or address translation — that's
// config.Config's job, layered on top using Arena.GetElement/PointerTo as
// its primitives.
package arena
