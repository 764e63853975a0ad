package colorspace

import "math"

// XYZ is the CIE 1931 XYZ color space with values scaled to [0, 1].
type XYZ [3]float64

var xyzToRGB = [3][3]float64{
	{3.24045, -1.53714, -0.498532},
	{-0.969266, 1.87601, 0.0415561},
	{0.0556434, -0.204026, 1.05723},
}

// RGBf applies the inverse sRGB matrix and compresses with the sRGB
// transfer curve.
func (c XYZ) RGBf() RGBf {
	lin := mul(&xyzToRGB, c)
	var rgb RGBf
	for i, x := range lin {
		if x <= 0.0031308 {
			rgb[i] = x * 12.92
		} else {
			rgb[i] = 1.055*math.Pow(x, 1/2.4) - 0.055
		}
	}
	return rgb
}

// RGB8 converts via the normalized sRGB values.
func (c XYZ) RGB8() RGB8 {
	return c.RGBf().RGB8()
}

// Lab applies the CIELab transfer function. No white point scaling is done,
// the reverse conversion in Lab.XYZ matches.
func (c XYZ) Lab() Lab {
	var f [3]float64
	for i, x := range c {
		if x > 0.008856 {
			f[i] = math.Cbrt(x)
		} else {
			f[i] = 7.78704*x + 16.0/116
		}
	}
	return Lab{
		116*f[1] - 16,
		500 * (f[0] - f[1]),
		200 * (f[1] - f[2]),
	}
}

func (c XYZ) Add(o XYZ) XYZ           { return add(c, o) }
func (c XYZ) Scale(s float64) XYZ     { return scale(c, s) }
func (c XYZ) Distance2(o XYZ) float64 { return distance2(c, o) }
func (c XYZ) Distance(o XYZ) float64  { return math.Sqrt(c.Distance2(o)) }
func (c XYZ) Composite() float64      { return composite(c) }
func (c XYZ) Bits() [3]uint64         { return bits(c) }
