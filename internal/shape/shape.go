// Package shape implements the small amount of n-dimensional array
// arithmetic the sampler needs: shape broadcasting, row-major strides, and
// conversion between flat and multi-dimensional indices.
//
// Broadcasting follows the usual rule set: shapes align on their trailing
// axes, and two dimensions are compatible when they are equal or one of
// them is 1. A scalar has the empty shape, which broadcasts with anything.
package shape

import (
	"fmt"
	"slices"
)

// Size returns the number of elements a shape addresses. The empty shape
// describes a scalar and has size 1.
func Size(s []int) int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Broadcast combines two shapes under the broadcasting rules.
func Broadcast(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 1; i <= n; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db, db == 1:
			out[n-i] = da
		case da == 1:
			out[n-i] = db
		default:
			return nil, fmt.Errorf("shapes %v and %v are not broadcastable: axis length %d conflicts with %d", a, b, da, db)
		}
	}
	return out, nil
}

// BroadcastAll folds Broadcast over any number of shapes. With no
// arguments it returns the scalar shape.
func BroadcastAll(shapes ...[]int) ([]int, error) {
	out := []int{}
	for _, s := range shapes {
		var err error
		out, err = Broadcast(out, s)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Strides returns row-major strides for a shape.
func Strides(s []int) []int {
	out := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		out[i] = stride
		stride *= s[i]
	}
	return out
}

// Unravel converts a flat row-major offset into a multi-dimensional index.
func Unravel(flat int, s []int) []int {
	idx := make([]int, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		idx[i] = flat % s[i]
		flat /= s[i]
	}
	return idx
}

// Ravel converts a multi-dimensional index into a flat row-major offset.
// The index must have exactly one entry per axis, each within range.
func Ravel(idx, s []int) (int, error) {
	if len(idx) != len(s) {
		return 0, fmt.Errorf("index %v has %d axes, shape %v has %d", idx, len(idx), s, len(s))
	}
	flat := 0
	for i, d := range idx {
		if d < 0 || d >= s[i] {
			return 0, fmt.Errorf("index %v out of range for shape %v on axis %d", idx, s, i)
		}
		flat = flat*s[i] + d
	}
	return flat, nil
}

// BroadcastOffset maps an index expressed in a broadcast result shape to
// the flat offset inside an operand of shape `from`. Axes the operand
// lacks are dropped and axes of length 1 are clamped to 0, which is what
// makes a broadcast operand appear repeated along those axes.
func BroadcastOffset(idx []int, from []int) int {
	flat := 0
	off := len(idx) - len(from)
	for i, d := range from {
		j := idx[off+i]
		if d == 1 {
			j = 0
		}
		flat = flat*d + j
	}
	return flat
}

// Equal reports whether two shapes are identical axis for axis.
func Equal(a, b []int) bool {
	return slices.Equal(a, b)
}
