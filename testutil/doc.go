// Package testutil provides testing utilities for sparsego.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating reproducible random position sets
// and for partitioning them across simulated workers.
//
// # Random Position Sets
//
//	rng := testutil.NewRNG(seed)
//	positions := rng.IndexSet(n, 0.3) // ~30% of [0, n), shuffled
//
// # Worker Partitions
//
//	parts := testutil.Partition(positions, workers)
package testutil
