package ptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/config"
	"github.com/indexedmem/idxpool/ptr"
)

type node struct {
	value int32
}

func TestPointer_NullByDefault(t *testing.T) {
	var p ptr.Pointer[node, uint32]
	assert.True(t, p.IsNull())
	assert.True(t, ptr.Null[node, uint32]().IsNull())
}

func TestPointer_OfAndDerefRoundTrip(t *testing.T) {
	a, err := arena.New[uint32](arena.Options{Capacity: 4, DeleteEnabled: true, Source: bufsrc.NewHeap()})
	require.NoError(t, err)
	h, err := a.Allocate(4)
	require.NoError(t, err)

	cfg := config.New[uint32](config.Options{Mode: config.Simple, ObjectSize: 0, NodeAlignment: 0})
	require.NoError(t, cfg.SetArena(a))

	n := (*node)(a.GetElement(h))
	n.value = 7

	p := ptr.Of(cfg, n)
	assert.False(t, p.IsNull())
	assert.Equal(t, h, p.Handle())
	assert.Equal(t, int32(7), p.Deref(cfg).value)
}

func TestPointer_VoidAndCastPreserveHandle(t *testing.T) {
	p := ptr.FromHandle[node, uint32](5)
	v := p.Void()
	assert.Equal(t, uint32(5), v.Handle())

	back := ptr.Cast[node, uint32](v)
	assert.True(t, p.Equal(back))
}

func TestPointer_EqualityComparesHandles(t *testing.T) {
	a := ptr.FromHandle[node, uint32](3)
	b := ptr.FromHandle[node, uint32](3)
	c := ptr.FromHandle[node, uint32](4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
