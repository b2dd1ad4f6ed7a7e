// Package parallel provides fork-join helpers for running disjoint
// sub-ranges of a fixed domain on a bounded set of goroutines. A call to
// Range returns only after every worker has finished, giving callers an
// implicit barrier between parallel regions.
package parallel

import (
	"golang.org/x/sync/errgroup"
)

// MinLoopLen is the smallest range worth a parallel launch. Below it the
// goroutine fan-out costs more than the loop itself.
const MinLoopLen = 2048

// LocalRange returns the contiguous sub-range [lower, upper) of [0, n)
// owned by worker id out of nparts. Ranges of distinct workers are
// disjoint and together cover [0, n). The partition is deterministic, so
// two passes over the same (n, nparts) see identical ranges.
func LocalRange(n, id, nparts int) (lower, upper int) {
	chunk := n / nparts
	rem := n % nparts
	lower = id*chunk + min(id, rem)
	upper = lower + chunk
	if id < rem {
		upper++
	}
	return lower, upper
}

// Workers clamps the requested worker count to the amount of useful work
// in a range of length n.
func Workers(requested, n int) int {
	if requested > n {
		requested = n
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// Range executes fn over [0, n) split across at most workers goroutines.
// Each invocation receives the worker id and its sub-range. Range blocks
// until all workers have returned.
func Range(n, workers int, fn func(id, lower, upper int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers, n)
	if workers == 1 {
		fn(0, 0, n)
		return
	}

	var g errgroup.Group
	for id := range workers {
		g.Go(func() error {
			lower, upper := LocalRange(n, id, workers)
			fn(id, lower, upper)
			return nil
		})
	}
	// Workers communicate through their disjoint ranges only and cannot
	// fail.
	_ = g.Wait()
}
