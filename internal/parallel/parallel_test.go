package parallel

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRange_PartitionsExactly(t *testing.T) {
	tests := []struct {
		n, nparts int
	}{
		{n: 10, nparts: 1},
		{n: 10, nparts: 3},
		{n: 10, nparts: 10},
		{n: 7, nparts: 4},
		{n: 100_003, nparts: 8},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/p=%d", tt.n, tt.nparts), func(t *testing.T) {
			prevUpper := 0
			for id := range tt.nparts {
				lower, upper := LocalRange(tt.n, id, tt.nparts)
				require.Equal(t, prevUpper, lower, "worker %d", id)
				require.LessOrEqual(t, lower, upper)
				prevUpper = upper
			}
			require.Equal(t, tt.n, prevUpper)
		})
	}
}

func TestLocalRange_Balanced(t *testing.T) {
	// No worker's share exceeds another's by more than one position.
	const n, nparts = 17, 5
	sizes := make([]int, nparts)
	for id := range nparts {
		lower, upper := LocalRange(n, id, nparts)
		sizes[id] = upper - lower
	}
	for _, s := range sizes {
		assert.InDelta(t, n/nparts, s, 1)
	}
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 4, Workers(4, 100))
	assert.Equal(t, 100, Workers(200, 100))
	assert.Equal(t, 1, Workers(0, 100))
	assert.Equal(t, 1, Workers(-3, 100))
	assert.Equal(t, 1, Workers(4, 0))
}

func TestRange_CoversEveryPosition(t *testing.T) {
	for _, workers := range []int{1, 2, 7, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			const n = 10_000
			touched := make([]int32, n)
			Range(n, workers, func(_, lower, upper int) {
				for i := lower; i < upper; i++ {
					atomic.AddInt32(&touched[i], 1)
				}
			})
			for i, cnt := range touched {
				require.EqualValues(t, 1, cnt, "position %d", i)
			}
		})
	}
}

func TestRange_BlocksUntilDone(t *testing.T) {
	const n = 4096
	var sum atomic.Int64
	Range(n, 8, func(_, lower, upper int) {
		for i := lower; i < upper; i++ {
			sum.Add(int64(i))
		}
	})
	// Visible immediately after return: Range is a barrier.
	assert.EqualValues(t, n*(n-1)/2, sum.Load())
}

func TestRange_EmptyAndSingle(t *testing.T) {
	calls := 0
	Range(0, 4, func(_, _, _ int) { calls++ })
	assert.Equal(t, 0, calls)

	Range(1, 4, func(id, lower, upper int) {
		calls++
		assert.Equal(t, 0, id)
		assert.Equal(t, 0, lower)
		assert.Equal(t, 1, upper)
	})
	assert.Equal(t, 1, calls)
}
