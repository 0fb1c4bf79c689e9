// Package persist supports the "zero-parse reload" path spec.md §6 calls
// out: an arena's buffer is positionally addressable, so a host that also
// persists elementSize, capacity, freeHead, and usedCapacity alongside it
// can hand the reopened mapping straight back to arena.Arena.Restore with
// no parsing of the slot data itself.
//
// Tracker and the platform flush functions are adapted from the teacher's
// hive/dirty package: the same page-aligned dirty-range tracking and
// msync/FlushViewOfFile flush, retargeted from "a registry hive's bytes"
// to "an arena's buffer" and with the hive-specific header/fdatasync
// distinction dropped, since an arena has no header page of its own.
package persist
