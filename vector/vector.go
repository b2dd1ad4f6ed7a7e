// Package vector provides the dense-storage container that operators
// compute over. A Vector owns element storage for a fixed domain and
// delegates all "which positions hold a value" bookkeeping to a
// coords.Coordinates index bound to memory the vector allocates once at
// construction.
package vector

import (
	"iter"

	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/internal/invariants"
)

// Vector is a fixed-size vector with sparse structure tracking.
// It is not safe for concurrent mutation; pipelines mutate disjoint tile
// views instead.
type Vector[T any] struct {
	values   []T
	presence []uint32
	buffer   []uint32
	coords   coords.Coordinates
}

// New creates a vector over the domain [0, n). The presence and scratch
// arenas are sized by the coords size functions and stay owned by the
// vector for its whole lifetime.
func New[T any](n int) *Vector[T] {
	v := &Vector[T]{
		values:   make([]T, n),
		presence: make([]uint32, coords.PresenceLen(n)),
		buffer:   make([]uint32, coords.BufferLen(n)),
	}
	// make zeroes the presence arena, so the index skips its own fill.
	v.coords.Attach(v.presence, true, v.buffer, n, false)
	return v
}

// Size returns the capacity of the vector.
func (v *Vector[T]) Size() int { return v.coords.Size() }

// Nonzeroes returns the number of positions currently holding a value.
func (v *Vector[T]) Nonzeroes() int { return v.coords.Nonzeroes() }

// IsEmpty reports whether the vector holds no values.
func (v *Vector[T]) IsEmpty() bool { return v.coords.IsEmpty() }

// IsDense reports whether every position holds a value.
func (v *Vector[T]) IsDense() bool { return v.coords.IsDense() }

// SetElement stores val at position i and records the position as
// occupied. Overwriting an occupied position is allowed.
func (v *Vector[T]) SetElement(i int, val T) {
	invariants.Assertf(i < v.Size(), "vector: position %d out of range [0,%d)", i, v.Size())
	v.values[i] = val
	v.coords.Assign(i)
}

// Value returns the element at position i and whether the position holds
// a value. The element is the zero value when absent.
func (v *Vector[T]) Value(i int) (T, bool) {
	if !v.coords.Assigned(i) {
		var zero T
		return zero, false
	}
	return v.values[i], true
}

// AssignAll stores val at every position, making the vector dense.
func (v *Vector[T]) AssignAll(val T) {
	for i := range v.values {
		v.values[i] = val
	}
	v.coords.AssignAll()
}

// Clear empties the structure. Element storage is left as is; absent
// positions read as zero through Value.
func (v *Vector[T]) Clear() {
	v.coords.Clear()
}

// All iterates the occupied positions and their values in stack order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for k := range v.coords.Nonzeroes() {
			i := v.coords.Index(k)
			if !yield(i, v.values[i]) {
				return
			}
		}
	}
}

// Values exposes the raw element storage. Positions not marked occupied
// hold stale data; callers must consult Coords before reading.
func (v *Vector[T]) Values() []T { return v.values }

// Coords exposes the structure index, the surface pipelines and
// operators use for presence tests, masked iteration and tiling.
func (v *Vector[T]) Coords() *coords.Coordinates { return &v.coords }
