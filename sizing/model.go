package sizing

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

const (
	// MinTileSize floors the tile size so that per-tile bookkeeping is
	// amortized over enough positions.
	MinTileSize = 512

	// MaxTiles is the hard ceiling on the number of tiles any domain may
	// be split into, independent of the attached buffer.
	MaxTiles = 1 << 20

	// fallbackL1Bytes is used when the CPU does not report an L1 data
	// cache size.
	fallbackL1Bytes = 32 * 1024
)

// cacheBudgetBytes is the per-tile working-set budget. Half the L1 data
// cache leaves headroom for operator-local state.
var cacheBudgetBytes = detectCacheBudget()

func detectCacheBudget() int {
	l1 := cpuid.CPU.Cache.L1D
	if l1 <= 0 {
		l1 = fallbackL1Bytes
	}
	return l1 / 2
}

// Model holds the derived execution shape for one domain. The zero value
// describes an empty domain.
type Model struct {
	numThreads int
	tileSize   int
	numTiles   int
}

// New derives a model for a domain of domainSize positions where every
// position touches elementBytes bytes of working set per pass.
// concurrencyHint caps the thread count; zero or negative means
// runtime.GOMAXPROCS(0). The result is deterministic for fixed inputs on
// fixed hardware.
func New(elementBytes, domainSize, concurrencyHint int) Model {
	if domainSize <= 0 {
		return Model{numThreads: 1, tileSize: MinTileSize, numTiles: 0}
	}
	if elementBytes <= 0 {
		elementBytes = 1
	}
	if concurrencyHint <= 0 {
		concurrencyHint = runtime.GOMAXPROCS(0)
	}

	tileSize := cacheBudgetBytes / elementBytes
	if tileSize < MinTileSize {
		tileSize = MinTileSize
	}
	if tileSize > domainSize {
		tileSize = domainSize
	}

	numTiles := (domainSize + tileSize - 1) / tileSize

	// Small domains cannot give every thread useful work.
	numThreads := concurrencyHint
	if numThreads > numTiles {
		numThreads = numTiles
	}
	if numThreads < 1 {
		numThreads = 1
	}

	return Model{
		numThreads: numThreads,
		tileSize:   tileSize,
		numTiles:   numTiles,
	}
}

// Explicit builds a model with a fixed shape, bypassing the cache
// heuristics. Callers are responsible for tileSize*numTiles covering
// their domain. Intended for calibrated schedulers and tests.
func Explicit(numThreads, tileSize, numTiles int) Model {
	if numThreads < 1 {
		numThreads = 1
	}
	if tileSize < 1 {
		tileSize = 1
	}
	if numTiles < 1 {
		numTiles = 1
	}
	return Model{
		numThreads: numThreads,
		tileSize:   tileSize,
		numTiles:   numTiles,
	}
}

// NumThreads returns the derived worker thread count.
func (m Model) NumThreads() int { return m.numThreads }

// TileSize returns the number of positions per tile. The last tile of a
// domain may be shorter.
func (m Model) TileSize() int { return m.tileSize }

// NumTiles returns the number of tiles covering the domain.
func (m Model) NumTiles() int { return m.numTiles }

// SequentialScan reports whether a scan over n entries of entryBytes
// bytes each should run sequentially rather than as a two-pass parallel
// scan. The cache-derived tile size acts as the calibration constant:
// below it, the parallel launch overhead exceeds the scan itself.
func SequentialScan(n, entryBytes int) bool {
	if entryBytes <= 0 {
		entryBytes = 1
	}
	threshold := cacheBudgetBytes / entryBytes
	if threshold < MinTileSize {
		threshold = MinTileSize
	}
	return n < threshold
}
