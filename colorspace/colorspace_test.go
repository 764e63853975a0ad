package colorspace

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func channelDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func assertClose(t *testing.T, want, got RGB8) {
	t.Helper()
	if channelDiff(want.R, got.R) > 1 || channelDiff(want.G, got.G) > 1 || channelDiff(want.B, got.B) > 1 {
		t.Fatalf("round trip of %v gave %v", want, got)
	}
}

// Every fifth value per channel plus both extremes.
func sample() []RGB8 {
	var levels []uint8
	for v := 0; v < 255; v += 5 {
		levels = append(levels, uint8(v))
	}
	levels = append(levels, 255)

	var out []RGB8
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				out = append(out, RGB8{r, g, b})
			}
		}
	}
	return out
}

func TestRoundTripLab(t *testing.T) {
	for _, c := range sample() {
		assertClose(t, c, c.XYZ().Lab().XYZ().RGB8())
	}
}

func TestRoundTripITP(t *testing.T) {
	for _, c := range sample() {
		assertClose(t, c, c.ITP().RGB8())
	}
}

func TestRoundTripRGBf(t *testing.T) {
	for _, c := range sample() {
		assert.Equal(t, c, c.RGBf().RGB8())
	}
}

func TestKnownValues(t *testing.T) {
	white := RGB8{255, 255, 255}.Lab()
	assert.InDelta(t, 100, white[0], 0.01)

	black := RGB8{}.Lab()
	assert.InDelta(t, 0, black[0], 1e-9)
	assert.InDelta(t, 0, black[1], 1e-9)
	assert.InDelta(t, 0, black[2], 1e-9)

	// Achromatic colors have no chroma in ICtCp.
	grey := RGB8{128, 128, 128}.ITP()
	assert.InDelta(t, 0, grey[1], 1e-4)
	assert.InDelta(t, 0, grey[2], 1e-4)
	assert.Greater(t, grey[0], RGB8{64, 64, 64}.ITP()[0])
}

func TestRGBfClamps(t *testing.T) {
	assert.Equal(t, RGB8{0, 255, 128}, RGBf{-0.5, 1.5, 0.5}.RGB8())
}

func TestPQNegativeInput(t *testing.T) {
	l := NonLinearLMS{-0.1, 0, 0.2}.Linear()
	for _, v := range l {
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestRedmean(t *testing.T) {
	black, white := RGB8{}, RGB8{255, 255, 255}

	assert.Zero(t, white.Distance2(white))
	assert.Equal(t, black.Distance2(white), white.Distance2(black))
	assert.LessOrEqual(t, black.Distance2(white), 255.0*255*3)
	assert.InDelta(t, math.Sqrt(black.Distance2(white)), black.Distance(white), 1e-9)

	// Green differences weigh more than blue ones.
	assert.Greater(t, black.Distance2(RGB8{0, 100, 0}), black.Distance2(RGB8{0, 0, 100}))
}

func TestITPDistanceScale(t *testing.T) {
	a, b := RGB8{10, 20, 30}.ITP(), RGB8{40, 50, 60}.ITP()
	assert.InDelta(t, 720*math.Sqrt(a.Distance2(b)), a.Distance(b), 1e-9)
}

func TestBits(t *testing.T) {
	assert.Equal(t, Lab{1, 2, 3}.Bits(), Lab{1, 2, 3}.Bits())

	// Signed zeroes are equal as floats but distinct as bit patterns.
	assert.True(t, Lab{0, 0, 0} == Lab{math.Copysign(0, -1), 0, 0})
	assert.NotEqual(t, Lab{0, 0, 0}.Bits(), Lab{math.Copysign(0, -1), 0, 0}.Bits())
}

func TestArithmetic(t *testing.T) {
	var zero ITP
	p := ITP{0.25, -0.5, 1}
	assert.Equal(t, p, zero.Add(p))
	assert.Equal(t, ITP{0.5, -1, 2}, p.Add(p))
	assert.Equal(t, ITP{0.125, -0.25, 0.5}, p.Scale(0.5))
	assert.Equal(t, 0.75, p.Composite())
}

func TestFromColor(t *testing.T) {
	assert.Equal(t, RGB8{1, 2, 3}, FromColor(color.RGBA{1, 2, 3, 255}))
	assert.Equal(t, RGB8{4, 5, 6}, FromColor(RGB8{4, 5, 6}))

	r, g, b, a := RGB8{0xff, 0x80, 0}.RGBA()
	assert.Equal(t, []uint32{0xffff, 0x8080, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestNearest(t *testing.T) {
	palette := []RGB8{{0, 0, 0}, {255, 0, 0}, {0, 0, 255}}

	i, ok := Nearest(RGB8{200, 10, 10}, palette)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = Nearest(RGB8{}, []RGB8(nil))
	assert.False(t, ok)
}

func TestNearestMinimal(t *testing.T) {
	palette := []RGB8{{12, 200, 3}, {90, 90, 90}, {250, 250, 0}, {0, 64, 255}, {128, 0, 128}}
	for _, c := range sample()[:2000] {
		i, ok := Nearest(c, palette)
		require.True(t, ok)
		for _, p := range palette {
			assert.LessOrEqual(t, c.Distance2(palette[i]), c.Distance2(p))
		}
	}
}

func TestNearestTieKeepsLowestIndex(t *testing.T) {
	points := []Lab{{10, 0, 0}, {0, 0, 0}, {-10, 0, 0}, {0, 0, 0}}

	i, ok := Nearest(Lab{0, 0, 0}, points)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = Nearest(Lab{0, 5, 0}, []Lab{{10, 5, 0}, {-10, 5, 0}})
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func identity(t *testing.T, a, b [3][3]float64, tolerance float64) {
	t.Helper()
	flatten := func(m [3][3]float64) []float64 {
		return []float64{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2]}
	}
	var p mat.Dense
	p.Mul(mat.NewDense(3, 3, flatten(a)), mat.NewDense(3, 3, flatten(b)))

	id := mat.NewDiagDense(3, []float64{1, 1, 1})
	assert.True(t, mat.EqualApprox(&p, id, tolerance), "product is\n%v", mat.Formatted(&p))
}

func TestMatrixPairs(t *testing.T) {
	identity(t, rgbToXYZ, xyzToRGB, 1e-4)
	identity(t, rgbToLMS, lmsToRGB, 1e-4)
	identity(t, nlLMSToITP, itpToNLLMS, 1e-4)
}
