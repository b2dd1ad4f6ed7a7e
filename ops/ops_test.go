package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/vector"
)

func newVec(vals map[int]float64, n int) *vector.Vector[float64] {
	v := vector.New[float64](n)
	for i, val := range vals {
		v.SetElement(i, val)
	}
	return v
}

func toMap(v *vector.Vector[float64]) map[int]float64 {
	m := make(map[int]float64, v.Nonzeroes())
	for i, val := range v.All() {
		m[i] = val
	}
	return m
}

func TestBinaryOps(t *testing.T) {
	assert.Equal(t, 5.0, Plus[float64]()(2, 3))
	assert.Equal(t, 6.0, Times[float64]()(2, 3))
	assert.Equal(t, 2.0, Min[float64]()(2, 3))
	assert.Equal(t, 3.0, Max[float64]()(2, 3))
}

func TestFoldL(t *testing.T) {
	v := newVec(map[int]float64{1: 2, 4: 3, 9: 5}, 10)
	assert.Equal(t, 10.0, FoldL(v, 0, Plus[float64]()))
	assert.Equal(t, 30.0, FoldL(v, 1, Times[float64]()))

	empty := vector.New[float64](10)
	assert.Equal(t, 42.0, FoldL(empty, 42, Plus[float64]()))
}

func TestApply(t *testing.T) {
	in := newVec(map[int]float64{0: 1, 5: 2}, 10)
	out := vector.New[float64](10)

	require.NoError(t, Apply(out, in, func(x float64) float64 { return x * 10 }))
	assert.Equal(t, map[int]float64{0: 10, 5: 20}, toMap(out))

	short := vector.New[float64](5)
	assert.ErrorIs(t, Apply(short, in, func(x float64) float64 { return x }), ErrSizeMismatch)
}

func TestApplyMasked(t *testing.T) {
	in := newVec(map[int]float64{0: 1, 1: 2, 2: 3}, 4)
	mask := vector.New[bool](4)
	mask.SetElement(0, true)
	mask.SetElement(1, false)
	mask.SetElement(2, true)

	neg := func(x float64) float64 { return -x }

	out := vector.New[float64](4)
	require.NoError(t, ApplyMasked(out, in, mask, coords.NoOperation, neg))
	assert.Equal(t, map[int]float64{0: -1, 2: -3}, toMap(out))

	// Structural masking keeps every assigned mask position regardless
	// of its value.
	out = vector.New[float64](4)
	require.NoError(t, ApplyMasked(out, in, mask, coords.Structural, neg))
	assert.Equal(t, map[int]float64{0: -1, 1: -2, 2: -3}, toMap(out))

	// Inversion selects the complement.
	out = vector.New[float64](4)
	require.NoError(t, ApplyMasked(out, in, mask, coords.Invert, neg))
	assert.Equal(t, map[int]float64{1: -2}, toMap(out))
}

func TestEWiseApply(t *testing.T) {
	a := newVec(map[int]float64{0: 1, 2: 2, 4: 3}, 6)
	b := newVec(map[int]float64{2: 10, 4: 20, 5: 30}, 6)

	t.Run("union", func(t *testing.T) {
		out := vector.New[float64](6)
		require.NoError(t, EWiseApply(out, a, b, Plus[float64](), false))
		assert.Equal(t, map[int]float64{0: 1, 2: 12, 4: 23, 5: 30}, toMap(out))
	})

	t.Run("intersection", func(t *testing.T) {
		out := vector.New[float64](6)
		require.NoError(t, EWiseApply(out, a, b, Times[float64](), true))
		assert.Equal(t, map[int]float64{2: 20, 4: 60}, toMap(out))
	})

	t.Run("output rebuilt", func(t *testing.T) {
		out := newVec(map[int]float64{1: 99}, 6)
		require.NoError(t, EWiseApply(out, a, b, Plus[float64](), true))
		_, ok := out.Value(1)
		assert.False(t, ok)
	})

	t.Run("size mismatch", func(t *testing.T) {
		out := vector.New[float64](5)
		assert.ErrorIs(t, EWiseApply(out, a, b, Plus[float64](), false), ErrSizeMismatch)
	})
}

func TestDot(t *testing.T) {
	a := newVec(map[int]float64{0: 1, 2: 2, 4: 3}, 6)
	b := newVec(map[int]float64{2: 10, 4: 20, 5: 30}, 6)

	got, err := Dot(a, b)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got)

	// Symmetric regardless of which side is sparser.
	got, err = Dot(b, a)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got)

	short := vector.New[float64](5)
	_, err = Dot(a, short)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestStructure(t *testing.T) {
	v := newVec(map[int]float64{1: 1, 3: 1}, 8)
	rb := Structure(v)
	assert.EqualValues(t, 2, rb.GetCardinality())
	assert.True(t, rb.Contains(1))
	assert.True(t, rb.Contains(3))
	assert.False(t, rb.Contains(2))

	dense := vector.New[float64](8)
	dense.AssignAll(1)
	rb = Structure(dense)
	assert.EqualValues(t, 8, rb.GetCardinality())
}
