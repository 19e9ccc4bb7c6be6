// Package morton computes Morton (Z-order) keys for points normalized into
// a scene bounding box, the space-filling-curve order the hierarchy builder
// sorts primitives by. See spec.md §4.3; the bit-interleaving bit tricks for
// the common 3-D case follow the ones used by VOPL's morton.go in the
// example pack.
package morton

import (
	"math"
	"math/bits"

	"github.com/rdpeck/bvhgo/geom"
)

// BitsPerAxis32 returns the number of quantization bits available per axis
// for a 32-bit key in the given dimension (10 for 3-D, matching spec.md).
func BitsPerAxis32(dim int) int {
	return 32 / dim
}

// BitsPerAxis64 returns the number of quantization bits available per axis
// for a 64-bit key in the given dimension (21 for 3-D, matching spec.md).
func BitsPerAxis64(dim int) int {
	return 64 / dim
}

// normalizeAxis maps p_d inside [min_d, max_d] to [0, 1], clamping out-of-range
// values and treating a zero-extent axis as always 0, per spec.md §4.3 step 1.
func normalizeAxis(p, min, max float64) float64 {
	extent := max - min
	var u float64
	if extent == 0 {
		u = 0
	} else {
		u = (p - min) / extent
	}
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return u
}

func quantize(u float64, bits int) uint64 {
	maxVal := uint64(1)<<uint(bits) - 1
	x := uint64(math.Floor(u * float64(uint64(1)<<uint(bits))))
	if x > maxVal {
		x = maxVal
	}
	return x
}

// quantizeAxes normalizes and quantizes every axis of p against bounds,
// returning one integer coordinate per axis.
func quantizeAxes(bounds geom.Box, p geom.Point, bits int) []uint64 {
	dim := bounds.Dim()
	out := make([]uint64, dim)
	for d := 0; d < dim; d++ {
		u := normalizeAxis(p[d], bounds.Min[d], bounds.Max[d])
		out[d] = quantize(u, bits)
	}
	return out
}

// interleave64 sets bit i*dim+d of the result to bit i of coords[d], for
// every axis d and every quantization bit i < bits.
func interleave64(coords []uint64, bits, dim int) uint64 {
	var key uint64
	for i := 0; i < bits; i++ {
		for d := 0; d < dim; d++ {
			bit := (coords[d] >> uint(i)) & 1
			key |= bit << uint(i*dim+d)
		}
	}
	return key
}

func interleave32(coords []uint64, bits, dim int) uint32 {
	var key uint32
	for i := 0; i < bits; i++ {
		for d := 0; d < dim; d++ {
			bit := uint32((coords[d] >> uint(i)) & 1)
			key |= bit << uint(i*dim+d)
		}
	}
	return key
}

// Encode64 computes the 64-bit Morton key of p inside bounds.
func Encode64(bounds geom.Box, p geom.Point) uint64 {
	dim := bounds.Dim()
	bits := BitsPerAxis64(dim)
	if dim == 3 {
		coords := quantizeAxes(bounds, p, bits)
		return morton3D64(uint32(coords[0]), uint32(coords[1]), uint32(coords[2]))
	}
	coords := quantizeAxes(bounds, p, bits)
	return interleave64(coords, bits, dim)
}

// Encode32 computes the 32-bit Morton key of p inside bounds.
func Encode32(bounds geom.Box, p geom.Point) uint32 {
	dim := bounds.Dim()
	bits := BitsPerAxis32(dim)
	coords := quantizeAxes(bounds, p, bits)
	return interleave32(coords, bits, dim)
}

// morton3D64 interleaves three 21-bit coordinates using the "magic number"
// bit-spreading trick (part1By2), the fast path for the common 3-D case.
func morton3D64(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) | (part1By2(uint64(y)) << 1) | (part1By2(uint64(z)) << 2)
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

// CommonPrefixLen64 returns the length of the common binary prefix shared by
// a and b, the δ() function the hierarchy builder uses to find split
// points (spec.md §4.5). Returns 64 if a == b.
func CommonPrefixLen64(a, b uint64) int {
	return bits.LeadingZeros64(a ^ b)
}
