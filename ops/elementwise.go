package ops

import (
	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/vector"
)

// FoldL folds all values of v into init, left to right over the occupied
// stack, through the accumulator op.
func FoldL[T Number](v *vector.Vector[T], init T, op BinaryOp[T]) T {
	acc := init
	vals := v.Values()
	c := v.Coords()
	for k := range c.Nonzeroes() {
		acc = op(acc, vals[c.Index(k)])
	}
	return acc
}

// Apply computes out[i] = fn(in[i]) for every occupied position of in.
// Positions of out outside in's structure are left untouched.
func Apply[T, U Number](out *vector.Vector[U], in *vector.Vector[T], fn func(T) U) error {
	if out.Size() != in.Size() {
		return ErrSizeMismatch
	}
	for i, val := range in.All() {
		out.SetElement(i, fn(val))
	}
	return nil
}

// ApplyMasked behaves like Apply restricted to the positions selected by
// the mask under the given descriptor.
func ApplyMasked[T, U Number](out *vector.Vector[U], in *vector.Vector[T], mask *vector.Vector[bool], desc coords.Descriptor, fn func(T) U) error {
	if out.Size() != in.Size() || mask.Size() != in.Size() {
		return ErrSizeMismatch
	}
	mc := mask.Coords()
	mv := mask.Values()
	for i, val := range in.All() {
		if !mc.Mask(i, mv, desc) {
			continue
		}
		out.SetElement(i, fn(val))
	}
	return nil
}

// EWiseApply computes out[i] = op(a[i], b[i]) element-wise. With
// intersect set the output structure is the intersection of the operand
// structures; otherwise it is their union and an absent operand
// contributes the zero value. out is rebuilt from scratch.
func EWiseApply[T Number](out, a, b *vector.Vector[T], op BinaryOp[T], intersect bool) error {
	if out.Size() != a.Size() || a.Size() != b.Size() {
		return ErrSizeMismatch
	}
	out.Clear()

	structure := Structure(a)
	if intersect {
		structure.And(Structure(b))
	} else {
		structure.Or(Structure(b))
	}

	av, bv := a.Values(), b.Values()
	ac, bc := a.Coords(), b.Coords()
	it := structure.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		var x, y T
		if ac.Assigned(i) {
			x = av[i]
		}
		if bc.Assigned(i) {
			y = bv[i]
		}
		out.SetElement(i, op(x, y))
	}
	return nil
}

// Dot returns the structure-intersection dot product of a and b. The
// sparser operand drives the iteration.
func Dot[T Number](a, b *vector.Vector[T]) (T, error) {
	var acc T
	if a.Size() != b.Size() {
		return acc, ErrSizeMismatch
	}
	if b.Nonzeroes() < a.Nonzeroes() {
		a, b = b, a
	}
	bv := b.Values()
	bc := b.Coords()
	for i, val := range a.All() {
		if bc.Assigned(i) {
			acc += val * bv[i]
		}
	}
	return acc, nil
}
