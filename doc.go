// Package sparsego provides a sparse linear-algebra runtime core for Go.
//
// Sparsego's containers track which logical positions currently hold a
// value while supporting single-writer sequential construction and
// many-writer concurrent construction without locks on the hot path.
//
// # Layout
//
//   - coords: the sparse coordinate index, a presence array plus a
//     compact stack of occupied positions, with a dense fast path, an
//     atomic buffered-insertion protocol, and a tiling/merge protocol
//     for fused per-tile execution.
//   - sizing: the analytic model that turns (element size, domain size,
//     parallelism) into (thread count, tile size, tile count) so each
//     tile's working set stays cache-resident.
//   - vector: the fixed-size container that owns element storage and
//     delegates structure bookkeeping to coords.
//   - ops: element-wise folds, applies and dot products over vectors,
//     including masked variants.
//   - pipeline: the lazily-fused scheduler that runs several operations
//     over one tile before moving on, then merges all tiles back with a
//     parallel prefix sum.
//
// # Quick start
//
//	x := vector.New[float64](1_000_000)
//	x.SetElement(42, 3.14)
//
//	p := pipeline.New(x.Coords(), 8)
//	p.Add(func(ctx context.Context, view *coords.Coordinates, lower, upper int) error {
//	    vals := x.Values()
//	    for k := range view.Nonzeroes() {
//	        vals[lower+view.Index(k)] *= 2
//	    }
//	    return nil
//	})
//	err := p.Execute(ctx)
//
// Persistence, network distribution and container resizing are out of
// scope. Everything lives in one shared-memory address space with
// caller-owned buffers whose capacities are fixed at attach time.
package sparsego
