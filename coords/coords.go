package coords

import (
	"runtime"
	"sync"

	"github.com/hupe1980/sparsego/internal/invariants"
	"github.com/hupe1980/sparsego/internal/parallel"
	"github.com/hupe1980/sparsego/sizing"
)

// Coordinates is the sparse coordinate index over a fixed domain [0, n).
//
// The zero value is an empty index over a zero-size domain; any other
// capacity requires a call to Attach before use. Coordinates does not own
// the memory it indexes into.
type Coordinates struct {
	// assigned holds one word per position; nonzero means present.
	// It aliases caller memory, and tile views alias sub-ranges of it.
	assigned []uint32

	// stack holds the occupied positions in its first n entries.
	stack []uint32

	buf []uint32
	n   int
	cap int

	// mu guards stack flushes during concurrent insertion.
	mu sync.Mutex

	tiles tiling
}

// PresenceLen returns the length, in uint32 words, of the presence array
// a caller must allocate for a domain of dim positions.
func PresenceLen(dim int) int {
	return dim
}

// StackLen returns the length, in uint32 words, of the global stack
// region inside the scratch buffer.
func StackLen(dim int) int {
	return dim
}

// minTileLen floors the tile size the scratch buffer is provisioned
// for. Tiles smaller than this cannot amortize their bookkeeping and are
// rejected at InitTiles.
const minTileLen = 64

// MaxTilesFor returns the largest tile count an attached buffer of the
// size given by BufferLen(dim) can accommodate.
func MaxTilesFor(dim int) int {
	t := (dim + minTileLen - 1) / minTileLen
	if t < 1 {
		t = 1
	}
	if t > sizing.MaxTiles {
		t = sizing.MaxTiles
	}
	return t
}

// BufferLen returns the length, in uint32 words, of the scratch buffer a
// caller must allocate alongside the presence array: the global stack,
// the per-tile local stacks, and the per-tile merge counters.
func BufferLen(dim int) int {
	if dim == 0 {
		return 0
	}
	// Local stacks need at most numTiles*(tileSize+1) <= 2*dim words.
	return StackLen(dim) + 2*dim + 3*MaxTilesFor(dim)
}

// Attach binds the index to caller-owned memory and fixes its capacity
// to dim. presence and buf must be at least PresenceLen(dim) and
// BufferLen(dim) words long and stay valid, exclusively owned by this
// index, for its whole lifetime. When initialized is false the presence
// array is zero-filled first, with multiple workers over disjoint
// sub-ranges if parallel is set. Capacity is not resizable afterwards.
func (c *Coordinates) Attach(presence []uint32, initialized bool, buf []uint32, dim int, parallel bool) {
	if dim == 0 {
		*c = Coordinates{}
		return
	}
	invariants.Assertf(len(presence) >= PresenceLen(dim),
		"coords: presence buffer holds %d words, need %d", len(presence), PresenceLen(dim))
	invariants.Assertf(len(buf) >= BufferLen(dim),
		"coords: scratch buffer holds %d words, need %d", len(buf), BufferLen(dim))

	c.assigned = presence[:dim]
	c.buf = buf
	c.stack = buf[:StackLen(dim)]
	c.n = 0
	c.cap = dim
	c.tiles = tiling{}

	if !initialized {
		c.zeroFill(parallel)
	}
}

func (c *Coordinates) zeroFill(par bool) {
	if !par || c.cap < parallel.MinLoopLen {
		clear(c.assigned)
		return
	}
	parallel.Range(c.cap, runtime.GOMAXPROCS(0), func(_, lower, upper int) {
		clear(c.assigned[lower:upper])
	})
}

// Size returns the capacity of the index.
func (c *Coordinates) Size() int { return c.cap }

// Nonzeroes returns the number of currently occupied positions.
func (c *Coordinates) Nonzeroes() int { return c.n }

// IsEmpty reports whether no position is occupied.
func (c *Coordinates) IsEmpty() bool { return c.n == 0 }

// IsDense reports whether every position is occupied. A zero-capacity
// index is dense by the count==capacity rule.
func (c *Coordinates) IsDense() bool { return c.n == c.cap }

// Assigned reports whether position i is occupied. When the index is
// dense the presence array is not read.
func (c *Coordinates) Assigned(i int) bool {
	invariants.Assertf(i < c.cap, "coords: position %d out of range [0,%d)", i, c.cap)
	return c.n == c.cap || c.assigned[i] != 0
}

// Index returns the k-th occupied position. k < Nonzeroes() is a
// precondition. When the index is dense the k-th position is k itself
// and the stack is not read. Under sequential construction the order is
// insertion order; under concurrent construction it is unspecified.
func (c *Coordinates) Index(k int) int {
	invariants.Assertf(k < c.n, "coords: stack offset %d out of range [0,%d)", k, c.n)
	if c.n == c.cap {
		return k
	}
	return int(c.stack[k])
}

// Assign inserts position i and reports whether it was already present.
// Not safe for concurrent calls on overlapping positions; use
// AsyncAssign for that.
func (c *Coordinates) Assign(i int) bool {
	invariants.Assertf(i < c.cap, "coords: position %d out of range [0,%d)", i, c.cap)
	if c.n == c.cap {
		return true
	}
	if c.assigned[i] != 0 {
		return true
	}
	c.assigned[i] = 1
	c.stack[c.n] = uint32(i)
	c.n++
	return false
}

// AssignAll makes the index dense in O(capacity) work. Disjoint
// sub-ranges are filled by independent workers; each position writes its
// own stack slot, so no two workers touch the same memory.
func (c *Coordinates) AssignAll() {
	if c.cap == 0 || c.n == c.cap {
		c.n = c.cap
		return
	}
	fill := func(lower, upper int) {
		for i := lower; i < upper; i++ {
			c.assigned[i] = 1
			c.stack[i] = uint32(i)
		}
	}
	if c.cap < parallel.MinLoopLen {
		fill(0, c.cap)
	} else {
		parallel.Range(c.cap, runtime.GOMAXPROCS(0), func(_, lower, upper int) {
			fill(lower, upper)
		})
	}
	c.n = c.cap
}

// Clear resets the index to empty. A dense index requires a full wipe of
// the presence array; a sparse one only unsets the positions recorded on
// the stack.
func (c *Coordinates) Clear() {
	if c.cap == 0 {
		return
	}
	if c.n == c.cap {
		if c.cap < parallel.MinLoopLen {
			clear(c.assigned)
		} else {
			parallel.Range(c.cap, runtime.GOMAXPROCS(0), func(_, lower, upper int) {
				clear(c.assigned[lower:upper])
			})
		}
	} else {
		unset := func(lower, upper int) {
			for k := lower; k < upper; k++ {
				c.assigned[c.stack[k]] = 0
			}
		}
		if c.n < parallel.MinLoopLen {
			unset(0, c.n)
		} else {
			parallel.Range(c.n, runtime.GOMAXPROCS(0), func(_, lower, upper int) {
				unset(lower, upper)
			})
		}
	}
	c.n = 0
}
