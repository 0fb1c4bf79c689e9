package handlealloc_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/config"
	"github.com/indexedmem/idxpool/handlealloc"
)

type mapNode struct {
	left, right, parent uint32
	key, value          int32
}

func TestHandleAllocator_AllocateDeallocateRoundTrip(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 8, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	cfg := config.New[uint32](config.Options{Mode: config.Simple, ObjectSize: 0, NodeAlignment: 0})
	require.NoError(t, cfg.SetArena(a))

	ha := handlealloc.New[mapNode, uint32](a, cfg, false)

	p1, err := ha.Allocate(1)
	require.NoError(t, err)
	require.False(t, p1.IsNull())

	p1.Deref(cfg).key = 42
	assert.Equal(t, int32(42), p1.Deref(cfg).key)

	ha.Deallocate(p1, 1)
}

func TestHandleAllocator_RejectsArrayAllocation(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 8, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	cfg := config.New[uint32](config.Options{Mode: config.Simple, ObjectSize: 0, NodeAlignment: 0})
	require.NoError(t, cfg.SetArena(a))
	ha := handlealloc.New[mapNode, uint32](a, cfg, false)

	_, err = ha.Allocate(2)
	require.Error(t, err)
}

func TestHandleAllocator_EqualTracksSharedArena(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 8, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	cfg := config.New[uint32](config.Options{Mode: config.Simple, ObjectSize: 0, NodeAlignment: 0})
	require.NoError(t, cfg.SetArena(a))

	other, err := arena.New[uint32](arena.Options{Capacity: 8, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)

	same := handlealloc.New[mapNode, uint32](a, cfg, false)
	alsoSame := handlealloc.New[mapNode, uint32](a, cfg, false)
	different := handlealloc.New[mapNode, uint32](other, cfg, false)

	assert.True(t, same.Equal(alsoSame))
	assert.False(t, same.Equal(different))
}

func TestHandleAllocator_BindPublishesContainerBase(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 8, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	cfg := config.New[uint32](config.Options{Mode: config.Universal, ObjectSize: 64, NodeAlignment: 0})
	require.NoError(t, cfg.SetArena(a))

	ha := handlealloc.New[mapNode, uint32](a, cfg, true)

	var owner struct{ sentinel mapNode }
	require.NoError(t, ha.Bind(unsafe.Pointer(&owner)))
	assert.Equal(t, unsafe.Pointer(&owner), cfg.GetContainerBase())
}

func TestBucketAllocator_AllocateGrowDeallocate(t *testing.T) {
	var ba handlealloc.BucketAllocator[int]
	buckets := ba.Allocate(4)
	assert.Len(t, buckets, 4)

	buckets[1] = 9
	grown := ba.Grow(buckets, 8)
	assert.Len(t, grown, 8)
	assert.Equal(t, 9, grown[1])

	ba.Deallocate(grown)
}
