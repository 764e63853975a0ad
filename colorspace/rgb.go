package colorspace

import (
	"image/color"
	"math"
)

// RGB8 is an sRGB color with 8-bit channels.
type RGB8 struct {
	R, G, B uint8
}

// FromColor converts any color.Color to RGB8, dropping alpha.
func FromColor(c color.Color) RGB8 {
	if c, ok := c.(RGB8); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// RGBA implements the color.Color interface. The color is always opaque.
func (c RGB8) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Distance2 returns the "redmean" weighted distance between two colors,
// normalized so the result stays within [0, 255²·3].
//
// See https://www.compuphase.com/cmetric.htm
func (c RGB8) Distance2(o RGB8) float64 {
	rMean := (int(c.R) + int(o.R)) / 2
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)

	dr2 := float64((512+rMean)*dr*dr) / 256
	dg2 := float64(4 * dg * dg)
	db2 := float64((767-rMean)*db*db) / 256
	return (dr2 + dg2 + db2) / 3
}

// Distance returns the square root of Distance2.
func (c RGB8) Distance(o RGB8) float64 {
	return math.Sqrt(c.Distance2(o))
}

// RGBf returns the color with each channel scaled to [0, 1].
func (c RGB8) RGBf() RGBf {
	return RGBf{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

// XYZ converts via the normalized sRGB values.
func (c RGB8) XYZ() XYZ {
	return c.RGBf().XYZ()
}

// Lab converts via XYZ.
func (c RGB8) Lab() Lab {
	return c.XYZ().Lab()
}

// LMS converts the normalized sRGB values with the BT.2100 RGB to LMS matrix.
func (c RGB8) LMS() LMS {
	return LMS(mul(&rgbToLMS, c.RGBf()))
}

// ITP converts via LMS and PQ encoded LMS.
func (c RGB8) ITP() ITP {
	return c.LMS().NonLinear().ITP()
}

// RGBf is an sRGB color with each channel normalized to [0, 1]. The gamma
// curve is still applied; XYZ removes it.
type RGBf [3]float64

// RGB8 scales back to [0, 255], rounding and clamping each channel.
func (c RGBf) RGB8() RGB8 {
	return RGB8{toByte(c[0] * 255), toByte(c[1] * 255), toByte(c[2] * 255)}
}

var rgbToXYZ = [3][3]float64{
	{0.4124564, 0.3575761, 0.1804375},
	{0.2126729, 0.7151522, 0.0721750},
	{0.0193339, 0.1191920, 0.9503041},
}

// XYZ expands the sRGB transfer curve and applies the sRGB (D65) matrix.
func (c RGBf) XYZ() XYZ {
	var lin [3]float64
	for i, x := range c {
		if x <= 0.04045 {
			lin[i] = x / 12.92
		} else {
			lin[i] = math.Pow((x+0.055)/1.055, 2.4)
		}
	}
	return XYZ(mul(&rgbToXYZ, lin))
}

func (c RGBf) Add(o RGBf) RGBf          { return add(c, o) }
func (c RGBf) Scale(s float64) RGBf     { return scale(c, s) }
func (c RGBf) Distance2(o RGBf) float64 { return distance2(c, o) }
func (c RGBf) Distance(o RGBf) float64  { return math.Sqrt(c.Distance2(o)) }
func (c RGBf) Composite() float64       { return composite(c) }
func (c RGBf) Bits() [3]uint64          { return bits(c) }
