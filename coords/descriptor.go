package coords

import "github.com/hupe1980/sparsego/internal/invariants"

// Descriptor selects how Mask interprets an external mask array.
type Descriptor uint8

const (
	// Structural interprets the mask by presence alone, ignoring the
	// supplied values.
	Structural Descriptor = 1 << iota
	// Invert negates the mask outcome.
	Invert
)

// NoOperation is the default descriptor: value-based, non-inverted.
const NoOperation Descriptor = 0

// Mask combines the presence of position i with an externally supplied
// value array according to the descriptor. A nil vals slice always
// behaves structurally.
func (c *Coordinates) Mask(i int, vals []bool, desc Descriptor) bool {
	invariants.Assertf(i < c.cap, "coords: position %d out of range [0,%d)", i, c.cap)
	r := c.Assigned(i)
	if r && desc&Structural == 0 && vals != nil {
		r = vals[i]
	}
	if desc&Invert != 0 {
		r = !r
	}
	return r
}
