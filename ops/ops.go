// Package ops implements the element-wise operator layer over vectors:
// folds, applies, dot products and their masked variants. Operators read
// and write elements through the container and consult its coordinate
// index for presence; they never index the occupied stack beyond the
// nonzero count and never mutate overlapping positions concurrently.
package ops

import "errors"

// ErrSizeMismatch is returned when the vectors of an operation do not
// share one domain size.
var ErrSizeMismatch = errors.New("ops: vector sizes do not match")

// Number constrains the element types operators compute over.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// BinaryOp is an associative binary operator over T.
type BinaryOp[T Number] func(a, b T) T

// Plus returns the addition operator.
func Plus[T Number]() BinaryOp[T] { return func(a, b T) T { return a + b } }

// Times returns the multiplication operator.
func Times[T Number]() BinaryOp[T] { return func(a, b T) T { return a * b } }

// Min returns the minimum operator.
func Min[T Number]() BinaryOp[T] {
	return func(a, b T) T {
		if b < a {
			return b
		}
		return a
	}
}

// Max returns the maximum operator.
func Max[T Number]() BinaryOp[T] {
	return func(a, b T) T {
		if b > a {
			return b
		}
		return a
	}
}
