package persist

import (
	"encoding/binary"
	"fmt"

	"github.com/indexedmem/idxpool/arena"
)

// HeaderSize is the fixed encoded size of a Header, in bytes (a magic
// tag plus five uint32 fields).
const HeaderSize = 24

// headerMagic tags a persisted arena image so LoadHeader can fail fast on
// a file that isn't one of ours instead of handing Restore garbage.
const headerMagic = 0x49445850 // "IDXP"

// Header is the metadata spec.md §6 requires alongside a persisted arena
// buffer for zero-parse reload: elementSize, capacity, freeHead, and
// usedCapacity. allocatedCount rides along too since arena.Arena.Restore
// needs it to resume accounting correctly.
type Header struct {
	ElementSize    uint32
	Capacity       uint32
	FreeHead       uint32
	UsedCapacity   uint32
	AllocatedCount uint32
}

// HeaderOf builds a Header from an arena's persistable state, passed in
// field by field. It reads nothing itself: values a caller reads off an
// MTArena while other threads are still allocating may already be stale,
// so callers persisting an MTArena must quiesce it first, same as
// Reset/FreeMemory's contract.
func HeaderOf[I arena.Unsigned](elementSize int, capacity, freeHead, usedCapacity, allocatedCount I) Header {
	return Header{
		ElementSize:    uint32(elementSize),
		Capacity:       uint32(capacity),
		FreeHead:       uint32(freeHead),
		UsedCapacity:   uint32(usedCapacity),
		AllocatedCount: uint32(allocatedCount),
	}
}

// Encode writes h's 24-byte (HeaderSize) little-endian form.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], headerMagic)
	binary.LittleEndian.PutUint32(buf[4:], h.ElementSize)
	binary.LittleEndian.PutUint32(buf[8:], h.Capacity)
	binary.LittleEndian.PutUint32(buf[12:], h.FreeHead)
	binary.LittleEndian.PutUint32(buf[16:], h.UsedCapacity)
	binary.LittleEndian.PutUint32(buf[20:], h.AllocatedCount)
	return buf
}

// DecodeHeader parses a Header written by Encode.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("persist: header too short: %d bytes", len(buf))
	}
	if magic := binary.LittleEndian.Uint32(buf[0:]); magic != headerMagic {
		return Header{}, fmt.Errorf("persist: bad header magic %#x", magic)
	}
	return Header{
		ElementSize:    binary.LittleEndian.Uint32(buf[4:]),
		Capacity:       binary.LittleEndian.Uint32(buf[8:]),
		FreeHead:       binary.LittleEndian.Uint32(buf[12:]),
		UsedCapacity:   binary.LittleEndian.Uint32(buf[16:]),
		AllocatedCount: binary.LittleEndian.Uint32(buf[20:]),
	}, nil
}
