package arena

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFreeList_Fuzz_RandomPushPop_GuardInvariants drives a fixed-seed
// sequence of random push/pop ops against freeList and checks, after every
// step, that the list holds exactly the set of handles currently "freed"
// (no lost slot, no duplicated slot — spec.md §8's linearizability
// guarantees reduce to this on a single goroutine) — the freeList
// counterpart to hive/alloc's Test_Fuzz_RandomAllocFree_GuardInvariants.
func TestFreeList_Fuzz_RandomPushPop_GuardInvariants(t *testing.T) {
	const n = 64
	slots := make([]uint32, n+1)
	fl := newFreeList[uint32](func(h uint32) *uint32 { return &slots[h-1] })

	rng := rand.New(rand.NewSource(42)) // fixed seed for reproducibility
	freed := make(map[uint32]bool)
	var popped []uint32
	next := uint32(1)

	for step := 0; step < 2000; step++ {
		op := rng.Intn(2) // 0=push a fresh or previously-popped handle, 1=pop
		switch {
		case op == 0 && (next <= n || len(popped) > 0):
			var h uint32
			if next <= n && (len(popped) == 0 || rng.Intn(2) == 0) {
				h = next
				next++
			} else {
				h = popped[len(popped)-1]
				popped = popped[:len(popped)-1]
			}
			fl.push(h)
			freed[h] = true
		case len(freed) > 0:
			h := fl.pop()
			require.NotZero(t, h, "step %d: pop returned 0 while %d handles were tracked as freed", step, len(freed))
			require.True(t, freed[h], "step %d: popped handle %d that wasn't in the freed set", step, h)
			delete(freed, h)
			popped = append(popped, h)
		default:
			h := fl.pop()
			require.Zero(t, h, "step %d: pop returned handle %d from an empty list", step, h)
		}

		validateFreeListInvariants(t, fl, freed)
	}
}

// validateFreeListInvariants walks fl and checks it holds exactly want,
// each handle exactly once.
func validateFreeListInvariants(t *testing.T, fl *freeList[uint32], want map[uint32]bool) {
	t.Helper()
	require.Equal(t, len(want), fl.length(), "free list length diverged from tracked freed set")

	_, head := unpack(fl.head.word.Load())
	seen := make(map[uint32]bool, len(want))
	for head != 0 {
		require.False(t, seen[head], "handle %d appears twice in the free list", head)
		require.True(t, want[head], "handle %d is linked into the free list but wasn't tracked as freed", head)
		seen[head] = true
		head = uint32(*fl.element(head))
	}
	require.Len(t, seen, len(want), "free list walk didn't visit every tracked freed handle")
}
