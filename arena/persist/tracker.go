package persist

import (
	"context"
	"sort"
)

const (
	defaultRangeCapacity = 64
	standardPageSize     = 4096
)

// Range is a dirty byte range, in offsets relative to the arena buffer's
// start.
type Range struct {
	Off int64
	Len int64
}

// Tracker accumulates dirty ranges inside an arena's buffer and flushes
// them to durable storage. NOT thread-safe: a Tracker is meant to sit
// behind whatever serializes access to the arena it shadows (the ST
// arena's own single-threaded contract, or an external lock around an MT
// arena's buffer).
type Tracker struct {
	buf      []byte
	ranges   []Range
	pageSize int64
}

// NewTracker creates a Tracker over buf, the arena's backing buffer
// (arena.Arena.Begin()).
func NewTracker(buf []byte) *Tracker {
	return &Tracker{
		buf:      buf,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Called after writing to a slot so the next
// Flush picks it up; typically one call per allocate/deallocate that
// touches the free-list linkage, plus one per write into the slot payload
// the host container makes.
func (t *Tracker) Add(off, length int) {
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Reset clears all tracked ranges without flushing them.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// DebugRanges returns the raw, uncoalesced tracked ranges.
func (t *Tracker) DebugRanges() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// DebugCoalescedRanges returns the page-aligned, merged ranges Flush would
// act on.
func (t *Tracker) DebugCoalescedRanges() []Range {
	return t.coalesce()
}

// Flush coalesces tracked ranges into page-aligned spans and msyncs (or
// the platform equivalent) each one, then clears the tracked set. A
// Tracker created with no buffer flushes nothing and keeps its ranges.
func (t *Tracker) Flush(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.buf) == 0 {
		return nil
	}
	if err := t.flushRanges(t.buf); err != nil {
		return err
	}
	t.ranges = t.ranges[:0]
	return nil
}

func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Off < aligned[j].Off })

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for i := 1; i < len(aligned); i++ {
		next := aligned[i]
		if next.Off <= current.Off+current.Len {
			if end := next.Off + next.Len; end > current.Off+current.Len {
				current.Len = end - current.Off
			}
		} else {
			merged = append(merged, current)
			current = next
		}
	}
	merged = append(merged, current)
	return merged
}
