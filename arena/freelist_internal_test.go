package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeList_PushPopOrderAndLength(t *testing.T) {
	slots := make([]uint32, 8)
	fl := newFreeList[uint32](func(h uint32) *uint32 { return &slots[h-1] })

	assert.Zero(t, fl.pop())

	fl.push(1)
	fl.push(2)
	fl.push(3)
	assert.Equal(t, 3, fl.length())

	assert.Equal(t, uint32(3), fl.pop())
	assert.Equal(t, uint32(2), fl.pop())
	assert.Equal(t, uint32(1), fl.pop())
	assert.Zero(t, fl.pop())
}

func TestFreeList_ResetEmptiesList(t *testing.T) {
	slots := make([]uint32, 4)
	fl := newFreeList[uint32](func(h uint32) *uint32 { return &slots[h-1] })
	fl.push(1)
	fl.push(2)
	fl.reset()
	assert.Zero(t, fl.length())
	assert.Zero(t, fl.pop())
}

// TestFreeList_ConcurrentPushPopNeverDuplicates drives push/pop from many
// goroutines at once and checks every popped handle came from the set that
// was pushed, exactly once, guarding against the ABA races tagging the
// head word exists to prevent.
func TestFreeList_ConcurrentPushPopNeverDuplicates(t *testing.T) {
	const n = 1000
	slots := make([]uint32, n+1)
	fl := newFreeList[uint32](func(h uint32) *uint32 { return &slots[h-1] })

	for i := uint32(1); i <= n; i++ {
		fl.push(i)
	}

	var mu sync.Mutex
	seen := make(map[uint32]int)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				h := fl.pop()
				if h == 0 {
					return
				}
				mu.Lock()
				seen[h]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for h, count := range seen {
		assert.Equal(t, 1, count, "handle %d popped %d times", h, count)
	}
}
