package persist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexedmem/idxpool/arena/persist"
)

func TestTracker_CoalescesAdjacentRanges(t *testing.T) {
	buf := make([]byte, 4096*4)
	tr := persist.NewTracker(buf)
	tr.Add(0, 10)
	tr.Add(4096, 10)
	tr.Add(9000, 10)

	coalesced := tr.DebugCoalescedRanges()
	require.Len(t, coalesced, 2)
	assert.Equal(t, int64(0), coalesced[0].Off)
	assert.Equal(t, int64(8192), coalesced[0].Len)
}

func TestTracker_FlushClearsRanges(t *testing.T) {
	buf := make([]byte, 4096)
	tr := persist.NewTracker(buf)
	tr.Add(0, 16)
	require.NoError(t, tr.Flush(context.Background()))
	assert.Empty(t, tr.DebugRanges())
}

func TestTracker_ResetDropsRangesWithoutFlushing(t *testing.T) {
	tr := persist.NewTracker(make([]byte, 4096))
	tr.Add(0, 16)
	tr.Reset()
	assert.Empty(t, tr.DebugRanges())
}
