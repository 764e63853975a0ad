package colorspace

import "math"

// Lab is the CIELab color space: lightness followed by the a and b chroma
// axes.
//
// See https://en.wikipedia.org/wiki/CIELAB_color_space
type Lab [3]float64

// XYZ reverses XYZ.Lab.
func (c Lab) XYZ() XYZ {
	y := (c[0] + 16) / 116
	f := [3]float64{y + c[1]/500, y, y - c[2]/200}

	var xyz XYZ
	for i, v := range f {
		if v > 0.206893 {
			xyz[i] = v * v * v
		} else {
			xyz[i] = 0.1284185 * (v - 16.0/116)
		}
	}
	return xyz
}

// RGB8 converts via XYZ.
func (c Lab) RGB8() RGB8 {
	return c.XYZ().RGB8()
}

// Distance2 is the squared CIE76 difference.
func (c Lab) Distance2(o Lab) float64 { return distance2(c, o) }
func (c Lab) Distance(o Lab) float64  { return math.Sqrt(c.Distance2(o)) }
func (c Lab) Add(o Lab) Lab           { return add(c, o) }
func (c Lab) Scale(s float64) Lab     { return scale(c, s) }
func (c Lab) Composite() float64      { return composite(c) }
func (c Lab) Bits() [3]uint64         { return bits(c) }
