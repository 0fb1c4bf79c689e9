//go:build windows

package stacktop

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// defaultProbe takes the address of a stack-local variable and asks
// VirtualQuery for the bounds of the committed memory region containing
// it. Windows reserves one contiguous region per thread stack, so the
// region's BaseAddress + RegionSize is the stack's high address.
var defaultProbe Probe = windowsProbe

func windowsProbe() (uintptr, error) {
	var local byte
	addr := uintptr(unsafe.Pointer(&local))

	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		return 0, fmt.Errorf("stacktop: VirtualQuery: %w", err)
	}
	return info.BaseAddress + info.RegionSize, nil
}
