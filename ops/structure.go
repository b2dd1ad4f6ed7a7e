package ops

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sparsego/vector"
)

// Structure exports the nonzero structure of v as a roaring bitmap, the
// set-algebra currency operators use to combine structures before
// touching element storage. Dense vectors export as a single run.
func Structure[T any](v *vector.Vector[T]) *roaring.Bitmap {
	rb := roaring.New()
	c := v.Coords()
	if c.IsDense() {
		rb.AddRange(0, uint64(c.Size()))
		return rb
	}
	for k := range c.Nonzeroes() {
		rb.Add(uint32(c.Index(k)))
	}
	return rb
}
