// Package config implements the handle-to-address translation layer
// (spec.md §4.D): the glue that lets a handle of width I mean "slot k of
// this arena", "this many alignment quanta below the thread's stack top",
// or "this byte offset into the container object", depending on its top
// one or two tag bits. This is the piece indexed::SingleArenaConfig and
// indexed::SingleArenaConfigUniversal play in the original design; the Go
// rendition collapses both into one generic Config, switched by Mode, and
// takes the spec's own suggested redesign as the primary shape: context is
// an explicit value threaded by the caller rather than hidden process-wide
// or thread-local state. Static and PerThread (see static.go, perthread.go)
// layer the two global-state variants on top for callers that want them.
package config

import (
	"unsafe"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/internal/assert"
)

// MaxStackSpan bounds how far below stackTop an address may sit and still
// be eligible for stack encoding (spec.md §4.D).
const MaxStackSpan = 2 * 1024 * 1024

// DefaultContainerHeuristicCap is the container-body span ToHandle assumes
// under Universal encoding when ObjectSize is 0 and the embedded-node
// layout is therefore unknown: an address less than this many bytes past
// the container base encodes as a container-body handle. See DESIGN.md,
// "Open Questions — resolutions".
const DefaultContainerHeuristicCap = 256

// ArenaRef is the subset of arena.Arena / arena.MTArena a Config needs:
// enough to test address ranges and translate slot handles, without
// caring whether the backing arena is single- or multi-threaded.
type ArenaRef[I arena.Unsigned] interface {
	Begin() []byte
	Capacity() I
	ElementSize() int
	GetElement(h I) unsafe.Pointer
	PointerTo(ptr unsafe.Pointer) I
}

// Config translates between handles of width I and raw addresses across
// the three possible node locations: arena slot, thread stack, container
// body. One Config serves one logical context (spec.md calls this
// "per-context state"); Static and PerThread decide how many contexts
// exist and how callers reach them.
type Config[I arena.Unsigned] struct {
	mode          Mode
	objectSize    int
	nodeAlignment int

	arenaRef      ArenaRef[I]
	stackTop      uintptr
	containerBase uintptr
}

// Options configures New, the same plain-struct idiom the teacher uses
// for hive/builder.Options rather than chained functional-option
// closures.
type Options struct {
	// Mode selects the Simple or Universal tag-bit encoding.
	Mode Mode

	// ObjectSize is the embedded-node region size under Universal
	// encoding; 0 disables precise container-body bounds checking in
	// favor of the <256-byte heuristic (spec.md §4.D step 3), and is the
	// only legal value under Simple encoding.
	// Default: 0
	ObjectSize int

	// NodeAlignment is the quantum used to encode stack offsets.
	// Default: the handle's own byte width.
	NodeAlignment int
}

// New creates a Config per opts.
func New[I arena.Unsigned](opts Options) *Config[I] {
	nodeAlignment := opts.NodeAlignment
	if nodeAlignment <= 0 {
		nodeAlignment = int(arena.Width[I]() / 8)
	}
	objectSize := opts.ObjectSize
	if opts.Mode == Simple {
		objectSize = 0
	}
	return &Config[I]{mode: opts.Mode, objectSize: objectSize, nodeAlignment: nodeAlignment}
}

// Mode reports the encoding this config was constructed with.
func (c *Config[I]) Mode() Mode { return c.mode }

// SetArena binds the arena this config translates arena-tagged handles
// against. Fails if the arena's capacity exceeds what I can address under
// this config's encoding, or if a is a multi-threaded arena bound under
// Universal encoding with no object size set (spec.md §4.D's MT
// constraint).
func (c *Config[I]) SetArena(a ArenaRef[I]) error {
	ceiling := arena.MaxArenaCapacity[I](c.mode == Universal)
	if a.Capacity() >= ceiling {
		return arena.ErrCapacityTooLarge
	}
	if _, mt := a.(*arena.MTArena[I]); mt && c.mode == Universal && c.objectSize == 0 {
		return ErrObjectSizeRequiredForMT
	}
	c.arenaRef = a
	return nil
}

// GetArena returns the bound arena, or nil if none has been set.
func (c *Config[I]) GetArena() ArenaRef[I] { return c.arenaRef }

// SetStackTop records the highest address of the calling thread's stack.
// Must be called once per thread that will perform handle operations,
// before its first one (spec.md §4.F).
func (c *Config[I]) SetStackTop(addr unsafe.Pointer) {
	c.stackTop = uintptr(addr)
}

// GetStackTop returns the recorded stack-top address, or nil if unset.
func (c *Config[I]) GetStackTop() unsafe.Pointer {
	return unsafe.Pointer(c.stackTop) //nolint:govet // raw address, not a live Go pointer
}

// SetContainerBase registers the address of the container object whose
// body may embed sentinel nodes. Only meaningful under Universal
// encoding; fails under Simple.
func (c *Config[I]) SetContainerBase(addr unsafe.Pointer) error {
	if c.mode != Universal {
		return ErrContainerBaseUnsupported
	}
	c.containerBase = uintptr(addr)
	return nil
}

// GetContainerBase returns the registered container base, or nil if unset.
func (c *Config[I]) GetContainerBase() unsafe.Pointer {
	return unsafe.Pointer(c.containerBase) //nolint:govet
}

func (c *Config[I]) arenaRange() (begin, end uintptr) {
	if c.arenaRef == nil {
		return 0, 0
	}
	buf := c.arenaRef.Begin()
	if len(buf) == 0 {
		return 0, 0
	}
	begin = uintptr(unsafe.Pointer(&buf[0]))
	end = begin + uintptr(c.arenaRef.Capacity())*uintptr(c.arenaRef.ElementSize())
	return begin, end
}

// ToHandle encodes addr as a handle, testing arena range, stack range,
// and (under Universal) container-body range in the order spec.md §4.D
// prescribes. Precondition violations — addr matching none of the three
// regions, or matching one at a misaligned offset — are programming bugs
// and are only checked under debug builds.
func (c *Config[I]) ToHandle(addr unsafe.Pointer) I {
	a := uintptr(addr)

	if c.mode == Simple || c.objectSize == 0 {
		if begin, end := c.arenaRange(); begin != 0 && a >= begin && a < end {
			return c.arenaRef.PointerTo(addr)
		}
	}

	if c.stackTop != 0 {
		if d := c.stackTop - a; c.stackTop >= a && d < MaxStackSpan {
			quanta := d / uintptr(c.nodeAlignment)
			onStack := arena.OnStackFlag[I]()
			assert.Check(quanta*uintptr(c.nodeAlignment) == d, "config: stack address is not node-aligned")
			assert.Check(I(quanta) < onStack, "config: stack offset overflows the handle payload")
			return I(quanta) | onStack
		}
	}

	if c.mode == Universal && c.containerBase != 0 {
		containerFlag := arena.ContainerFlag[I]()
		span := c.objectSize
		if span == 0 {
			span = DefaultContainerHeuristicCap
		}
		if off := a - c.containerBase; a >= c.containerBase && off < uintptr(span) {
			return I(off) | containerFlag
		}
	}

	assert.Check(c.arenaRef != nil, "config: ToHandle address matches no registered region")
	return c.arenaRef.PointerTo(addr)
}

// ToAddress decodes a handle back into a raw address, branching on its top
// two tag bits.
func (c *Config[I]) ToAddress(h I) unsafe.Pointer {
	onStack := arena.OnStackFlag[I]()
	if h&onStack != 0 {
		offset := uintptr(h&^onStack) * uintptr(c.nodeAlignment)
		return unsafe.Pointer(c.stackTop - offset) //nolint:govet
	}
	if c.mode == Universal {
		containerFlag := arena.ContainerFlag[I]()
		if h&containerFlag != 0 {
			return unsafe.Pointer(c.containerBase + uintptr(h&^containerFlag)) //nolint:govet
		}
	}
	return c.arenaRef.GetElement(h)
}
