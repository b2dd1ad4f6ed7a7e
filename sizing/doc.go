// Package sizing derives the execution shape of a tiled computation: how
// many worker threads to use, how large each tile should be, and how many
// tiles cover the domain.
//
// The model is a pure sizing policy. Given the working-set size per
// logical position, the domain size, and a concurrency hint, it picks a
// tile size whose working set fits a budget derived from the L1 data
// cache, so that a tile's positions stay cache-resident while a pipeline
// runs several fused operations over them. It carries no state beyond the
// three derived numbers and may be re-derived freely at any call site.
package sizing
