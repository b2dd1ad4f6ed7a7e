package coords

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/sparsego/internal/invariants"
	"github.com/hupe1980/sparsego/internal/parallel"
	"github.com/hupe1980/sparsego/sizing"
)

// ErrTileOverflow is returned by InitTiles when the sizing model asks for
// more tiles than the attached scratch buffer accommodates.
var ErrTileOverflow = errors.New("coords: tile count exceeds attached buffer capacity")

// prefixEntryBytes is the working set per tile during the offsets
// computation: one new-insertions counter plus one prefix-sum slot.
const prefixEntryBytes = 8

// prefixPartial is one worker's inclusive scan total, padded so that
// neighboring workers never share a cache line.
type prefixPartial struct {
	v uint32
	_ [unsafe.Sizeof(cpu.CacheLinePad{}) - 4]byte
}

// tiling is the per-pipeline-stage tile state of a Coordinates instance.
// All slices alias the attached scratch buffer; partials is the only
// memory owned here and is sized once at InitTiles.
type tiling struct {
	model sizing.Model

	// local[t][0] holds the tile's occupied count at open time;
	// local[t][1:] is the tile-local stack of local offsets.
	local [][]uint32

	newNnzs  []uint32
	prefSum  []uint32
	partials []prefixPartial
	workers  int
}

// Tile is the capability to mutate one contiguous sub-range of the
// domain during a pipeline stage. It is obtained from OpenTile, yields
// aliasing views via View, and is consumed exactly once by Commit.
type Tile struct {
	owner        *Coordinates
	id           int
	lower, upper int
	committed    bool
}

// InitTiles partitions the domain into the tiles described by the sizing
// model and assigns each tile a disjoint scratch slot. It must run before
// any tile is opened and fails fast, before any tile does work, when the
// model's tile count does not fit the attached buffer.
func (c *Coordinates) InitTiles(m sizing.Model) error {
	if c.cap == 0 {
		return nil
	}

	numTiles := m.NumTiles()
	tileSize := m.TileSize()
	invariants.Assertf(numTiles > 0, "coords: sizing model covers an empty domain")
	invariants.Assertf(numTiles*tileSize >= c.cap,
		"coords: sizing model covers %d positions, domain holds %d", numTiles*tileSize, c.cap)

	avail := len(c.buf) - StackLen(c.cap)
	need := numTiles*(tileSize+1) + 2*numTiles
	if numTiles > MaxTilesFor(c.cap) || need > avail {
		return fmt.Errorf("%w: %d tiles of size %d over domain %d", ErrTileOverflow, numTiles, tileSize, c.cap)
	}

	c.tiles.model = m
	if cap(c.tiles.local) < numTiles {
		c.tiles.local = make([][]uint32, numTiles)
	}
	c.tiles.local = c.tiles.local[:numTiles]

	scratch := c.buf[StackLen(c.cap):]
	for t := range numTiles {
		c.tiles.local[t] = scratch[t*(tileSize+1) : (t+1)*(tileSize+1)]
	}
	c.tiles.newNnzs = scratch[numTiles*(tileSize+1) : numTiles*(tileSize+1)+numTiles]
	c.tiles.prefSum = scratch[numTiles*(tileSize+1)+numTiles : numTiles*(tileSize+1)+2*numTiles]

	// Sizing for the offsets merge is re-derived from the tile count, not
	// the domain.
	pm := sizing.New(prefixEntryBytes, numTiles, m.NumThreads())
	c.tiles.workers = parallel.Workers(pm.NumThreads(), numTiles)
	if len(c.tiles.partials) < c.tiles.workers {
		c.tiles.partials = make([]prefixPartial, c.tiles.workers)
	}
	return nil
}

// OpenTile activates the tile covering [lower, upper) and snapshots the
// positions already occupied inside it. The range must match the
// partitioning of the sizing model passed to InitTiles. Tiles covering
// disjoint ranges may be opened concurrently; opening the same tile from
// two goroutines is undefined.
func (c *Coordinates) OpenTile(lower, upper int) *Tile {
	t := &Tile{owner: c, lower: lower, upper: upper}
	if c.cap == 0 {
		return t
	}
	invariants.Assertf(lower < upper && upper <= c.cap,
		"coords: tile [%d,%d) out of range [0,%d)", lower, upper, c.cap)

	t.id = lower / c.tiles.model.TileSize()
	local := c.tiles.local[t.id]

	// Whichever of the sub-range and the global stack is shorter is the
	// cheaper scan.
	cnt := uint32(0)
	if upper-lower < c.n {
		for i := lower; i < upper; i++ {
			if c.assigned[i] != 0 {
				local[1+cnt] = uint32(i - lower)
				cnt++
			}
		}
	} else {
		for k := range c.n {
			g := int(c.stack[k])
			if lower <= g && g < upper {
				local[1+cnt] = uint32(g - lower)
				cnt++
			}
		}
	}
	local[0] = cnt
	c.tiles.newNnzs[t.id] = 0
	return t
}

// View returns a Coordinates view of the tile. Its presence array aliases
// the parent's sub-range, so Assigned and Assign observe and mutate the
// same bits; its stack is the tile-local scratch, so insertions stay
// private to the tile until Commit. The view supports sequential updates
// and all queries, exactly like a standalone index of the tile's size.
func (t *Tile) View() *Coordinates {
	c := t.owner
	if c.cap == 0 {
		return &Coordinates{}
	}
	local := c.tiles.local[t.id]
	invariants.Assertf(t.upper-t.lower <= c.tiles.model.TileSize(),
		"coords: tile [%d,%d) exceeds tile size %d", t.lower, t.upper, c.tiles.model.TileSize())

	return &Coordinates{
		assigned: c.assigned[t.lower:t.upper],
		stack:    local[1:],
		n:        int(local[0]) + int(c.tiles.newNnzs[t.id]),
		cap:      t.upper - t.lower,
	}
}

// Close saves the state of a view back into the tile's scratch: the
// number of insertions the view performed since OpenTile. The global
// stack stays untouched until Commit.
func (t *Tile) Close(v *Coordinates) {
	c := t.owner
	if c.cap == 0 {
		return
	}
	local := c.tiles.local[t.id]
	invariants.Assertf(uint32(v.n) >= local[0], "coords: view lost nonzeroes of tile [%d,%d)", t.lower, t.upper)
	c.tiles.newNnzs[t.id] = uint32(v.n) - local[0]
}

// HasNewNonzeroes reports whether any tile recorded insertions since it
// was opened. An O(numTiles) scan that lets callers skip the commit
// entirely.
func (c *Coordinates) HasNewNonzeroes() bool {
	if c.cap == 0 {
		return false
	}
	for _, nn := range c.tiles.newNnzs {
		if nn > 0 {
			return true
		}
	}
	return false
}

// ComputeGlobalOffsets turns the per-tile insertion counts into global
// stack offsets: after the call, tile t's new entries belong at
// [prefSum[t]-newNnzs[t], prefSum[t]) and the occupied count equals the
// grand total. Small tile counts use a sequential scan; larger ones a
// two-pass parallel scan. Both produce identical offsets.
func (c *Coordinates) ComputeGlobalOffsets() {
	if c.cap == 0 {
		return
	}
	numTiles := c.tiles.model.NumTiles()

	if sizing.SequentialScan(numTiles, prefixEntryBytes) {
		c.sequentialOffsets(numTiles)
	} else {
		c.parallelOffsets(numTiles)

		if invariants.Enabled {
			got := make([]uint32, numTiles)
			copy(got, c.tiles.prefSum[:numTiles])
			c.sequentialOffsets(numTiles)
			for i := range numTiles {
				invariants.Assertf(got[i] == c.tiles.prefSum[i],
					"coords: parallel offsets diverge at tile %d: %d != %d", i, got[i], c.tiles.prefSum[i])
			}
		}
	}

	c.n = int(c.tiles.prefSum[numTiles-1])
}

// sequentialOffsets is the O(numTiles) single-goroutine scan.
func (c *Coordinates) sequentialOffsets(numTiles int) {
	newNnzs, prefSum := c.tiles.newNnzs, c.tiles.prefSum
	prefSum[0] = uint32(c.n) + newNnzs[0]
	for i := 1; i < numTiles; i++ {
		prefSum[i] = prefSum[i-1] + newNnzs[i]
	}
}

// parallelOffsets is the two-pass scan: every worker computes an
// inclusive prefix sum over its sub-range, a single goroutine scans the
// per-worker totals, and every worker rebases its sub-range with its
// predecessors' total. It produces the offsets sequentialOffsets would.
func (c *Coordinates) parallelOffsets(numTiles int) {
	newNnzs, prefSum := c.tiles.newNnzs, c.tiles.prefSum
	w := parallel.Workers(c.tiles.workers, numTiles)
	partials := c.tiles.partials

	parallel.Range(numTiles, w, func(id, lower, upper int) {
		prefSum[lower] = newNnzs[lower]
		for i := lower + 1; i < upper; i++ {
			prefSum[i] = prefSum[i-1] + newNnzs[i]
		}
		partials[id].v = prefSum[upper-1]
	})

	for i := 1; i < w; i++ {
		partials[i].v += partials[i-1].v
	}

	// The partition is deterministic, so this pass sees the exact
	// sub-ranges of the first one.
	parallel.Range(numTiles, w, func(id, lower, upper int) {
		acc := uint32(c.n)
		if id > 0 {
			acc += partials[id-1].v
		}
		for i := lower; i < upper; i++ {
			prefSum[i] += acc
		}
	})
}

// Commit scatters the tile's new insertions into the global stack at the
// offsets computed by ComputeGlobalOffsets and marks the tile inactive.
// Exactly one goroutine commits a tile, after all mutators of its range
// have closed it.
func (t *Tile) Commit() {
	c := t.owner
	if c.cap == 0 {
		return
	}
	invariants.Assertf(!t.committed, "coords: tile [%d,%d) committed twice", t.lower, t.upper)

	local := c.tiles.local[t.id]
	start := int(local[0])
	end := start + int(c.tiles.newNnzs[t.id])

	pos := c.tiles.prefSum[t.id] - c.tiles.newNnzs[t.id]
	for k := start; k < end; k++ {
		g := local[1+k] + uint32(t.lower)
		invariants.Assertf(int(g) < t.upper, "coords: local offset %d escapes tile [%d,%d)", local[1+k], t.lower, t.upper)
		invariants.Assertf(c.assigned[g] != 0, "coords: committing unassigned position %d", g)
		c.stack[pos] = g
		pos++
	}

	c.tiles.newNnzs[t.id] = 0
	t.committed = true
}
