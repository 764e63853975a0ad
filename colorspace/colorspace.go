/*
Package colorspace implements the color spaces used to build palettes.

RGB8 is the wire and display representation. The floating point spaces are
normalized sRGB (RGBf), CIE XYZ, CIELab, LMS, non-linear (PQ encoded) LMS and
ITP (ICtCp). Every conversion is lossy; channel values are rounded and clamped
on the way back to RGB8, so round trips agree to within one step per channel.

Float triples compare with ==, which follows IEEE-754 rules. Where exact
duplicates have to be detected use Bits, which compares raw bit patterns. NaN
is never produced by the conversions and is not a valid input.
*/
package colorspace

import "math"

// triple is the underlying type of every floating point color space.
type triple interface {
	~[3]float64
}

func add[T triple](a, b T) T {
	return T{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func scale[T triple](a T, s float64) T {
	return T{a[0] * s, a[1] * s, a[2] * s}
}

func distance2[T triple](a, b T) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

func composite[T triple](a T) float64 {
	return a[0] + a[1] + a[2]
}

func bits[T triple](a T) [3]uint64 {
	return [3]uint64{math.Float64bits(a[0]), math.Float64bits(a[1]), math.Float64bits(a[2])}
}

func mul(m *[3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// toByte rounds a [0, 255] scaled value and saturates it into a byte.
func toByte(x float64) uint8 {
	x = math.Round(x)
	switch {
	case x <= 0 || math.IsNaN(x):
		return 0
	case x >= 255:
		return 255
	}
	return uint8(x)
}
