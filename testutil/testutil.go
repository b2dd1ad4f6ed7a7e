package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// IndexSet returns a set of unique positions covering roughly density of
// the domain [0, n), in shuffled order.
func (r *RNG) IndexSet(n int, density float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	positions := make([]int, 0, int(float64(n)*density)+1)
	for i := range n {
		if r.rand.Float64() < density {
			positions = append(positions, i)
		}
	}
	r.rand.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})
	return positions
}

// Partition deals positions round-robin to p workers. Every position
// lands in exactly one part; parts may be empty when positions run out.
func Partition(positions []int, p int) [][]int {
	if p < 1 {
		p = 1
	}
	parts := make([][]int, p)
	for k, pos := range positions {
		parts[k%p] = append(parts[k%p], pos)
	}
	return parts
}

// OverlappingParts hands every worker the full position set, simulating
// racing writers on overlapping positions.
func OverlappingParts(positions []int, p int) [][]int {
	if p < 1 {
		p = 1
	}
	parts := make([][]int, p)
	for i := range parts {
		parts[i] = positions
	}
	return parts
}
