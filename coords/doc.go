// Package coords tracks which positions of a fixed-size container
// currently hold a value.
//
// A Coordinates instance maintains a dense presence array over the domain
// [0, n) together with a compact stack of the occupied positions, so that
// presence tests are O(1) and iterating nonzeroes is O(nnz). When every
// position is present the index is "dense" and queries short-circuit
// without touching the stack at all.
//
// The index borrows its memory. Containers allocate two arenas sized by
// PresenceLen and BufferLen and bind them once with Attach; the index
// never allocates on any mutation path.
//
// Three insertion protocols are supported:
//
//   - Assign, for a single writer;
//   - AsyncAssign/JoinUpdate, for many writers racing on possibly
//     overlapping positions (atomic test-and-set plus thread-local
//     batches flushed under a short critical section);
//   - tiles, for pipelines that split the domain into disjoint
//     sub-ranges mutated independently and merged back in one commit
//     (see InitTiles, OpenTile and Tile).
package coords
