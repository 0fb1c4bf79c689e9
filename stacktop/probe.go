// Package stacktop implements Component F: a platform helper that returns
// the highest address of the calling thread's stack, for config.Config's
// SetStackTop. The core allocator treats this purely as an external
// collaborator behind an interface (spec.md §1, §4.F); this package
// supplies a real implementation where the platform makes one possible
// without cgo (the rest of this module never uses cgo, so neither does
// this package) and a pluggable override everywhere else.
//
// The value returned is the OS thread's stack top. An ordinary goroutine's
// stack is managed by the Go runtime and is moved to a new allocation when
// it grows, so a stack-encoded handle is only usable from a goroutine
// pinned with runtime.LockOSThread (see LockAndProbe) whose stack does not
// grow between the probe and the handle's last use. Pinning alone does not
// stop the stack from moving.
package stacktop

import (
	"errors"
	"runtime"
	"sync"
)

// ErrUnsupported is returned by Current on platforms with no built-in
// probe; callers on such platforms must Register one (e.g. backed by a
// platform SDK the caller already links, or a conservative fixed-size
// estimate for threads it created itself with a known stack size).
var ErrUnsupported = errors.New("stacktop: no probe registered for this platform")

// Probe returns the highest address of the calling thread's stack.
type Probe func() (uintptr, error)

var (
	mu      sync.RWMutex
	current Probe = defaultProbe
)

// Register installs p as the probe used by Current, replacing the
// platform default (or the unsupported stub). Intended for platforms
// probe_other.go doesn't cover, or for tests that want a deterministic
// stack top.
func Register(p Probe) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

// Reset restores the platform default probe, undoing any Register call.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaultProbe
}

// Current returns the calling thread's stack-top address using whichever
// probe is currently registered.
func Current() (uintptr, error) {
	mu.RLock()
	p := current
	mu.RUnlock()
	return p()
}

// LockAndProbe pins the calling goroutine to its current OS thread (the
// probe inspects OS thread state, so the goroutine must not migrate
// mid-call) and returns its stack-top address. The caller must invoke the
// returned unlock func once it has finished the sequence of thread-scoped
// operations that depend on the probed value remaining valid, typically
// deferred immediately.
func LockAndProbe() (uintptr, func(), error) {
	runtime.LockOSThread()
	top, err := Current()
	if err != nil {
		runtime.UnlockOSThread()
		return 0, func() {}, err
	}
	return top, runtime.UnlockOSThread, nil
}
