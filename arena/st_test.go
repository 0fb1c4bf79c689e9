package arena_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/bufsrc"
)

type slot32 struct {
	next  uint32
	value int32
}

func TestArena_AllocateDeallocateReuse(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 4, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	h1, err := a.Allocate(int(unsafe.Sizeof(slot32{})))
	require.NoError(t, err)
	require.NotZero(t, h1)

	h2, err := a.Allocate(int(unsafe.Sizeof(slot32{})))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	(*slot32)(a.GetElement(h1)).value = 42
	assert.Equal(t, int32(42), (*slot32)(a.GetElement(h1)).value)

	a.Deallocate(h1, int(unsafe.Sizeof(slot32{})))
	h3, err := a.Allocate(int(unsafe.Sizeof(slot32{})))
	require.NoError(t, err)
	assert.Equal(t, h1, h3, "freed slot should be recycled before growing the high-water mark")
}

func TestArena_CapacityExhausted(t *testing.T) {
	a, err := arena.New[uint16](arena.Options{Capacity: 2, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	_, err = a.Allocate(4)
	require.NoError(t, err)
	_, err = a.Allocate(4)
	require.NoError(t, err)

	_, err = a.Allocate(4)
	require.Error(t, err)
	var aerr *arena.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, arena.KindOutOfMemory, aerr.Kind)
}

func TestArena_SetCapacityRejectsOversizedRequest(t *testing.T) {
	a := &arena.Arena[uint16]{}
	err := a.SetCapacity(1 << 20)
	require.Error(t, err)
	var aerr *arena.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, arena.KindCapacityTooLarge, aerr.Kind)
}

func TestArena_SetCapacityRejectedOnceAllocated(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 4, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	_, err = a.Allocate(4)
	require.NoError(t, err)

	err = a.SetCapacity(8)
	require.ErrorIs(t, err, arena.ErrAllocationInProgress)
}

func TestArena_PointerToRoundTrip(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 4, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	h, err := a.Allocate(int(unsafe.Sizeof(slot32{})))
	require.NoError(t, err)

	addr := a.GetElement(h)
	assert.Equal(t, h, a.PointerTo(addr))
}

func TestArena_AutoResetWhenLastSlotFreed(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 2, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	h1, err := a.Allocate(4)
	require.NoError(t, err)
	h2, err := a.Allocate(4)
	require.NoError(t, err)

	a.Deallocate(h1, 4)
	a.Deallocate(h2, 4)
	assert.Zero(t, a.AllocatedCount())
	assert.Zero(t, a.UsedCapacity())

	h3, err := a.Allocate(4)
	require.NoError(t, err)
	assert.NotZero(t, h3)
	assert.EqualValues(t, 2, a.Capacity())
}

func TestArena_DeleteDisabledNeverRecycles(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 4, DeleteEnabled: false, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	h1, err := a.Allocate(4)
	require.NoError(t, err)
	// A second live slot keeps the live count above zero, so Deallocate
	// doesn't auto-reset the arena.
	_, err = a.Allocate(4)
	require.NoError(t, err)
	a.Deallocate(h1, 4)

	h2, err := a.Allocate(4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "delete-disabled arena must not recycle slots")
}
