package bufsrc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/bufsrc"
)

func TestHeap_AcquireBaseRelease(t *testing.T) {
	h := bufsrc.NewHeap()
	assert.Nil(t, h.Base())

	buf, err := h.Acquire(128)
	require.NoError(t, err)
	assert.Len(t, buf, 128)
	assert.Equal(t, buf, h.Base())

	h.Release()
	assert.Nil(t, h.Base())
}

func TestProvided_RejectsOversizedRequest(t *testing.T) {
	p := bufsrc.NewProvided(make([]byte, 16))
	_, err := p.Acquire(17)
	require.Error(t, err)
	require.ErrorIs(t, err, bufsrc.ErrOutOfMemory)
}

func TestProvided_AcquireReleaseRoundTrip(t *testing.T) {
	backing := make([]byte, 32)
	p := bufsrc.NewProvided(backing)
	assert.Nil(t, p.Base())

	buf, err := p.Acquire(32)
	require.NoError(t, err)
	assert.Len(t, buf, 32)
	assert.NotNil(t, p.Base())

	p.Release()
	assert.Nil(t, p.Base())
}
