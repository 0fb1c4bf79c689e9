// Package bufsrc implements the buffer-source variants an arena.Arena or
// arena.MTArena acquires its backing region from: Heap (plain make),
// Mmap (anonymous shared memory, page granularity), Provided (a
// caller-supplied fixed buffer), and FileBacked (for zero-parse reload of a
// previously persisted arena image, see arena/persist).
//
// Each Source is used by exactly one Arena and Acquire is called at most
// once between Release calls, matching spec.md §4.A's capability set.
package bufsrc
