package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/arena/persist"
)

func TestHeader_EncodeDecodeRoundTrip(t *testing.T) {
	h := persist.HeaderOf[uint32](20, 1000, 7, 42, 41)
	decoded, err := persist.DecodeHeader(h.Encode())
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestDecodeHeader_RejectsBadMagic(t *testing.T) {
	buf := make([]byte, persist.HeaderSize)
	_, err := persist.DecodeHeader(buf)
	require.Error(t, err)
}

func TestDecodeHeader_RejectsShortBuffer(t *testing.T) {
	_, err := persist.DecodeHeader(make([]byte, 4))
	require.Error(t, err)
}
