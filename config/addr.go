package config

import "unsafe"

// ptrFromUintptr and uintptrFromPtr convert between raw addresses and
// unsafe.Pointer at the boundary of the uintptr-based Static/PerThread
// APIs. Both sides of the conversion are the same here: these addresses
// name arena slots, stack locations, or container bodies that outlive the
// conversion on their own terms, never an address Go's GC is asked to
// track through this round trip.
func ptrFromUintptr(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr) //nolint:govet
}

func uintptrFromPtr(p unsafe.Pointer) uintptr {
	return uintptr(p)
}
