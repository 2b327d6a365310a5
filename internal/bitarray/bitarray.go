// Package bitarray stores per-shot classical outcomes for one register of
// one pub: a leading broadcast shape, a shots axis, and a packed bit axis.
// Bits pack least-significant-first into bytes, so register bit k of a
// shot lives at bit k%8 of byte k/8 and the integer value of a shot is
// the sum of bit_k << k.
package bitarray

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"github.com/qubelet/qsampler/internal/shape"
)

// BitArray is a dense bit matrix of sampled register values. The zero
// value is not usable; construct with New.
//
// Index arguments follow slice-indexing semantics: structurally invalid
// indices panic.
type BitArray struct {
	shp      []int
	shots    int
	numBits  int
	rowBytes int
	data     []byte
}

// New allocates a zeroed BitArray for the given broadcast shape, shot
// count, and register width. Width zero is legal and stores no bytes.
func New(shp []int, shots, numBits int) *BitArray {
	if shots < 0 || numBits < 0 {
		panic(fmt.Sprintf("bitarray: invalid dimensions shots=%d bits=%d", shots, numBits))
	}
	rowBytes := (numBits + 7) / 8
	return &BitArray{
		shp:      slices.Clone(shp),
		shots:    shots,
		numBits:  numBits,
		rowBytes: rowBytes,
		data:     make([]byte, shape.Size(shp)*shots*rowBytes),
	}
}

// Shape returns the leading broadcast shape, without the shots axis.
func (b *BitArray) Shape() []int { return slices.Clone(b.shp) }

// NumShots returns the number of shots stored per broadcast point.
func (b *BitArray) NumShots() int { return b.shots }

// NumBits returns the register width.
func (b *BitArray) NumBits() int { return b.numBits }

// NumPoints returns the number of broadcast points.
func (b *BitArray) NumPoints() int { return shape.Size(b.shp) }

func (b *BitArray) rowAt(point, shot int) []byte {
	if point < 0 || point >= b.NumPoints() || shot < 0 || shot >= b.shots {
		panic(fmt.Sprintf("bitarray: point %d shot %d out of range for %d point(s), %d shot(s)",
			point, shot, b.NumPoints(), b.shots))
	}
	off := (point*b.shots + shot) * b.rowBytes
	return b.data[off : off+b.rowBytes]
}

// SetBit writes register bit `bit` of the given shot at a flat broadcast
// point index.
func (b *BitArray) SetBit(point, shot, bit int, v byte) {
	if bit < 0 || bit >= b.numBits {
		panic(fmt.Sprintf("bitarray: bit %d out of range for width %d", bit, b.numBits))
	}
	row := b.rowAt(point, shot)
	if v != 0 {
		row[bit/8] |= 1 << (bit % 8)
	} else {
		row[bit/8] &^= 1 << (bit % 8)
	}
}

// Bit reads register bit `bit` of the given shot at a flat broadcast
// point index.
func (b *BitArray) Bit(point, shot, bit int) byte {
	if bit < 0 || bit >= b.numBits {
		panic(fmt.Sprintf("bitarray: bit %d out of range for width %d", bit, b.numBits))
	}
	row := b.rowAt(point, shot)
	return (row[bit/8] >> (bit % 8)) & 1
}

// flatPoints resolves the point argument convention shared by the count
// views: no index unions every broadcast point, an explicit index selects
// one.
func (b *BitArray) flatPoints(point []int) []int {
	if len(point) == 0 {
		pts := make([]int, b.NumPoints())
		for i := range pts {
			pts[i] = i
		}
		return pts
	}
	flat, err := shape.Ravel(point, b.shp)
	if err != nil {
		panic("bitarray: " + err.Error())
	}
	return []int{flat}
}

// Counts tallies shots by bitstring. Keys render the most significant bit
// leftmost, so a two-bit register with bit 0 set reads "01". With no
// arguments the counts of every broadcast point are unioned; with an
// explicit multi-dimensional index one point is selected.
func (b *BitArray) Counts(point ...int) map[string]int {
	out := map[string]int{}
	for _, p := range b.flatPoints(point) {
		for s := 0; s < b.shots; s++ {
			out[b.bitstring(p, s)]++
		}
	}
	return out
}

// IntCounts tallies shots by integer register value. Registers wider than
// 64 bits do not fit a uint64 and panic.
func (b *BitArray) IntCounts(point ...int) map[uint64]int {
	if b.numBits > 64 {
		panic(fmt.Sprintf("bitarray: IntCounts on a %d-bit register does not fit uint64", b.numBits))
	}
	out := map[uint64]int{}
	for _, p := range b.flatPoints(point) {
		for s := 0; s < b.shots; s++ {
			out[b.intValue(p, s)]++
		}
	}
	return out
}

// BitCount returns the number of set bits per shot for one point (or the
// concatenation over all points with no arguments).
func (b *BitArray) BitCount(point ...int) []uint64 {
	var out []uint64
	for _, p := range b.flatPoints(point) {
		for s := 0; s < b.shots; s++ {
			var n int
			for _, by := range b.rowAt(p, s) {
				n += bits.OnesCount8(by)
			}
			out = append(out, uint64(n))
		}
	}
	return out
}

func (b *BitArray) bitstring(point, shot int) string {
	if b.numBits == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(b.numBits)
	for k := b.numBits - 1; k >= 0; k-- {
		sb.WriteByte('0' + b.Bit(point, shot, k))
	}
	return sb.String()
}

func (b *BitArray) intValue(point, shot int) uint64 {
	var v uint64
	row := b.rowAt(point, shot)
	for i, by := range row {
		v |= uint64(by) << (8 * i)
	}
	return v
}
