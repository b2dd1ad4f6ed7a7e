package sizing

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CoversDomain(t *testing.T) {
	tests := []struct {
		name            string
		elementBytes    int
		domainSize      int
		concurrencyHint int
	}{
		{name: "small domain", elementBytes: 8, domainSize: 100, concurrencyHint: 4},
		{name: "large domain", elementBytes: 8, domainSize: 10_000_000, concurrencyHint: 16},
		{name: "fat elements", elementBytes: 4096, domainSize: 100_000, concurrencyHint: 8},
		{name: "default concurrency", elementBytes: 8, domainSize: 50_000, concurrencyHint: 0},
		{name: "byte elements", elementBytes: 0, domainSize: 1 << 20, concurrencyHint: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.elementBytes, tt.domainSize, tt.concurrencyHint)

			require.GreaterOrEqual(t, m.NumThreads(), 1)
			require.GreaterOrEqual(t, m.TileSize(), 1)
			require.GreaterOrEqual(t, m.NumTiles(), 1)
			assert.LessOrEqual(t, m.NumTiles(), MaxTiles)
			assert.LessOrEqual(t, m.TileSize(), tt.domainSize)

			// The tiling covers the domain without a full spare tile.
			covered := m.TileSize() * m.NumTiles()
			assert.GreaterOrEqual(t, covered, tt.domainSize)
			assert.Less(t, covered-tt.domainSize, m.TileSize())

			if tt.concurrencyHint > 0 {
				assert.LessOrEqual(t, m.NumThreads(), tt.concurrencyHint)
			} else {
				assert.LessOrEqual(t, m.NumThreads(), runtime.GOMAXPROCS(0))
			}
			assert.LessOrEqual(t, m.NumThreads(), m.NumTiles())
		})
	}
}

func TestNew_EmptyDomain(t *testing.T) {
	m := New(8, 0, 4)
	assert.Equal(t, 1, m.NumThreads())
	assert.Equal(t, 0, m.NumTiles())
}

func TestNew_Deterministic(t *testing.T) {
	a := New(8, 123_457, 6)
	b := New(8, 123_457, 6)
	assert.Equal(t, a, b)
}

func TestNew_TinyDomainIsOneTile(t *testing.T) {
	m := New(8, MinTileSize/2, 8)
	assert.Equal(t, 1, m.NumTiles())
	assert.Equal(t, 1, m.NumThreads())
	assert.Equal(t, MinTileSize/2, m.TileSize())
}

func TestExplicit_ClampsToValidShape(t *testing.T) {
	m := Explicit(0, -5, 0)
	assert.Equal(t, 1, m.NumThreads())
	assert.Equal(t, 1, m.TileSize())
	assert.Equal(t, 1, m.NumTiles())

	m = Explicit(3, 100, 10)
	assert.Equal(t, 3, m.NumThreads())
	assert.Equal(t, 100, m.TileSize())
	assert.Equal(t, 10, m.NumTiles())
}

func TestSequentialScan(t *testing.T) {
	assert.True(t, SequentialScan(0, 8))
	assert.True(t, SequentialScan(1, 8))
	assert.True(t, SequentialScan(MinTileSize-1, 1<<20))

	// Scans far beyond any L1 budget go parallel.
	assert.False(t, SequentialScan(1<<24, 8))

	// Fatter entries lower the cutover point.
	bigEntry := cacheBudgetBytes // one entry fills the whole budget
	assert.False(t, SequentialScan(MinTileSize, bigEntry))
}
