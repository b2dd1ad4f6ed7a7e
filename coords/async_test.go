package coords

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsego/testutil"
)

// insertAll runs the full buffered-insertion protocol for one worker:
// flush whenever the batch fills, and once more at the end of the
// region.
func insertAll(c *Coordinates, positions []int, u *Update) {
	for _, i := range positions {
		if u.Full() {
			c.JoinUpdate(u)
		}
		c.AsyncAssign(i, u)
	}
	c.JoinUpdate(u)
}

func TestAsyncAssign_AtMostOneFirstInsertion(t *testing.T) {
	c := newIndex(t, 8)

	var u1, u2 Update
	assert.False(t, c.AsyncAssign(5, &u1))
	assert.True(t, c.AsyncAssign(5, &u2))
	assert.Equal(t, 1, u1.Len())
	assert.Equal(t, 0, u2.Len())

	c.JoinUpdate(&u1)
	c.JoinUpdate(&u2) // empty final flush is still valid
	assert.Equal(t, 1, c.Nonzeroes())
	assert.True(t, c.Assigned(5))
}

func TestConcurrentEqualsSequential(t *testing.T) {
	const n = 4096
	positions := testutil.NewRNG(11).IndexSet(n, 0.4)

	reference := newIndex(t, n)
	for _, i := range positions {
		reference.Assign(i)
	}
	want := occupiedSet(reference)

	for _, workers := range []int{1, 2, 3, 4, 8, 16, 32, 64} {
		for _, overlapping := range []bool{false, true} {
			name := fmt.Sprintf("disjoint/%d", workers)
			parts := testutil.Partition(positions, workers)
			if overlapping {
				name = fmt.Sprintf("overlapping/%d", workers)
				parts = testutil.OverlappingParts(positions, workers)
			}
			t.Run(name, func(t *testing.T) {
				c := newIndex(t, n)

				var wg sync.WaitGroup
				for _, part := range parts {
					wg.Add(1)
					go func() {
						defer wg.Done()
						var u Update
						insertAll(c, part, &u)
					}()
				}
				wg.Wait()

				require.Equal(t, len(want), c.Nonzeroes(), "workers=%d", workers)
				require.Equal(t, want, occupiedSet(c), "workers=%d", workers)
			})
		}
	}
}

func TestConcurrentInsertionThenSequentialReuse(t *testing.T) {
	const n = 1024
	c := newIndex(t, n)

	var u Update
	insertAll(c, []int{1, 3, 5}, &u)

	// The flushed state behaves like sequentially built state.
	assert.True(t, c.Assign(3))
	assert.False(t, c.Assign(4))
	assert.Equal(t, 4, c.Nonzeroes())
}

func BenchmarkAssign(b *testing.B) {
	const n = 1 << 16
	c := newIndex(b, n)
	positions := testutil.NewRNG(3).IndexSet(n, 0.3)

	b.ResetTimer()
	for b.Loop() {
		c.Clear()
		for _, i := range positions {
			c.Assign(i)
		}
	}
}

func BenchmarkAsyncAssign(b *testing.B) {
	const n = 1 << 16
	c := newIndex(b, n)
	positions := testutil.NewRNG(3).IndexSet(n, 0.3)
	parts := testutil.Partition(positions, 8)

	b.ResetTimer()
	for b.Loop() {
		c.Clear()
		var wg sync.WaitGroup
		for _, part := range parts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var u Update
				insertAll(c, part, &u)
			}()
		}
		wg.Wait()
	}
}
