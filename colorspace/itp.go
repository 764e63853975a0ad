package colorspace

import "math"

// PQ (SMPTE ST 2084) constants.
const (
	pqM1 = 0.1593017578125
	pqM2 = 78.84375
	pqC2 = 18.8515625
	pqC3 = 18.6875
	pqC1 = pqC3 - pqC2 + 1

	// pqPeak is the luminance in cd/m² that maps to a PQ value of 1.
	pqPeak = 10000

	// itpScale turns the Euclidean ITP distance into ΔE_ITP, where 1 is
	// roughly one just noticeable difference.
	itpScale = 720
)

var (
	rgbToLMS = [3][3]float64{
		{0.412109375, 0.52392578125, 0.06396484375},
		{0.166748046875, 0.720458984375, 0.11279296875},
		{0.024169921875, 0.075439453125, 0.900390625},
	}
	lmsToRGB = [3][3]float64{
		{3.43661, -2.50645, 0.0698454},
		{-0.79133, 1.9836, -0.192271},
		{-0.0259499, -0.0989137, 1.12486},
	}
	nlLMSToITP = [3][3]float64{
		{0.5, 0.5, 0},
		{0.806884765625, -1.6617431640625, 0.8548583984375},
		{4.378173828125, -4.24560546875, -0.132568359375},
	}
	itpToNLLMS = [3][3]float64{
		{1, 0.0172181, 0.11103},
		{1, -0.0172181, -0.11103},
		{1, 1.12006, -0.320627},
	}
)

// LMS models the response of the three cone types.
type LMS [3]float64

// RGB8 applies the inverse of the RGB to LMS matrix.
func (c LMS) RGB8() RGB8 {
	return RGBf(mul(&lmsToRGB, c)).RGB8()
}

// NonLinear applies the PQ transfer function to each component.
func (c LMS) NonLinear() NonLinearLMS {
	var n NonLinearLMS
	for i, x := range c {
		y := math.Pow(math.Max(x, 0)/pqPeak, pqM1)
		n[i] = math.Pow((pqC1+pqC2*y)/(1+pqC3*y), pqM2)
	}
	return n
}

func (c LMS) Add(o LMS) LMS           { return add(c, o) }
func (c LMS) Scale(s float64) LMS     { return scale(c, s) }
func (c LMS) Distance2(o LMS) float64 { return distance2(c, o) }
func (c LMS) Distance(o LMS) float64  { return math.Sqrt(c.Distance2(o)) }
func (c LMS) Composite() float64      { return composite(c) }
func (c LMS) Bits() [3]uint64         { return bits(c) }

// NonLinearLMS is LMS encoded with the PQ transfer function, written L'M'S'.
type NonLinearLMS [3]float64

// Linear reverses the PQ transfer function. Negative inputs decode as zero.
func (c NonLinearLMS) Linear() LMS {
	var l LMS
	for i, x := range c {
		e := math.Pow(math.Max(x, 0), 1/pqM2)
		top := math.Max(e-pqC1, 0)
		bottom := pqC2 - pqC3*e
		if bottom <= 0 {
			l[i] = pqPeak
			continue
		}
		l[i] = pqPeak * math.Pow(top/bottom, 1/pqM1)
	}
	return l
}

// ITP applies the L'M'S' to ICtCp matrix.
func (c NonLinearLMS) ITP() ITP {
	return ITP(mul(&nlLMSToITP, c))
}

func (c NonLinearLMS) Add(o NonLinearLMS) NonLinearLMS  { return add(c, o) }
func (c NonLinearLMS) Scale(s float64) NonLinearLMS     { return scale(c, s) }
func (c NonLinearLMS) Distance2(o NonLinearLMS) float64 { return distance2(c, o) }
func (c NonLinearLMS) Distance(o NonLinearLMS) float64  { return math.Sqrt(c.Distance2(o)) }
func (c NonLinearLMS) Composite() float64               { return composite(c) }
func (c NonLinearLMS) Bits() [3]uint64                  { return bits(c) }

// ITP is the ICtCp color space of ITU-R BT.2100, intensity followed by the
// tritan and protan chroma axes.
//
// See https://www.itu.int/rec/R-REC-BT.2124
type ITP [3]float64

// NonLinear applies the ICtCp to L'M'S' matrix.
func (c ITP) NonLinear() NonLinearLMS {
	return NonLinearLMS(mul(&itpToNLLMS, c))
}

// RGB8 converts back through L'M'S' and LMS.
func (c ITP) RGB8() RGB8 {
	return c.NonLinear().Linear().RGB8()
}

// Distance returns ΔE_ITP, the Euclidean distance scaled by 720.
func (c ITP) Distance(o ITP) float64 { return itpScale * math.Sqrt(c.Distance2(o)) }

// Distance2 is the plain squared Euclidean distance, unscaled.
func (c ITP) Distance2(o ITP) float64 { return distance2(c, o) }
func (c ITP) Add(o ITP) ITP           { return add(c, o) }
func (c ITP) Scale(s float64) ITP     { return scale(c, s) }
func (c ITP) Composite() float64      { return composite(c) }
func (c ITP) Bits() [3]uint64         { return bits(c) }
