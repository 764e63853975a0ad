package image

import (
	"bytes"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/imgcpr/colorspace"
	"github.com/bodgit/imgcpr/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var redGreen = []byte{
	2, 0, 0, 0, // width
	1, 0, 0, 0, // height
	2, 0, 0, 0, // palette count
	0xff, 0x00, 0x00,
	0x00, 0xff, 0x00,
	0x10,
}

func testImage(w, h int, seed int64) *image.RGBA {
	r := rand.New(rand.NewSource(seed))
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Blocks of color with a little noise
			base := uint8((x / 4 * 60) + (y / 4 * 25))
			m.SetRGBA(x, y, color.RGBA{base + uint8(r.Intn(8)), 255 - base, base * 3, 0xff})
		}
	}
	return m
}

func TestEncodeTwoPixels(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.SetRGBA(0, 0, color.RGBA{0xff, 0, 0, 0xff})
	m.SetRGBA(1, 0, color.RGBA{0, 0xff, 0, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m, &palette.Options{Method: palette.Frequency, Size: 16}))
	assert.Equal(t, redGreen, b.Bytes())
}

func TestDecodeTwoPixels(t *testing.T) {
	m, err := Decode(bytes.NewReader(redGreen))
	require.NoError(t, err)

	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 2, 1), pm.Bounds())
	assert.Equal(t, []uint8{0, 1}, pm.Pix)
	assert.Equal(t, colorspace.RGB8{R: 0xff}, pm.At(0, 0))
	assert.Equal(t, colorspace.RGB8{G: 0xff}, pm.At(1, 0))
}

func TestRoundTrip(t *testing.T) {
	src := testImage(33, 17, 1)
	pix := Pixels(src)

	for _, method := range []palette.Method{palette.Frequency, palette.KMeans, palette.CIELab, palette.MedianCut} {
		t.Run(method.String(), func(t *testing.T) {
			p, r, err := NewPayload(33, 17, pix, &palette.Options{Method: method, MaxIterations: 50})
			require.NoError(t, err)
			require.Equal(t, r.Palette, p.Palette)

			b, err := p.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, b, headerSize+colorSize*len(p.Palette)+(33*17+1)/2)

			m, err := Decode(bytes.NewReader(b))
			require.NoError(t, err)
			require.Equal(t, src.Bounds(), m.Bounds())

			for y := 0; y < 17; y++ {
				for x := 0; x < 33; x++ {
					want := p.Palette[r.Indices[y*33+x]]
					assert.Equal(t, want, colorspace.FromColor(m.At(x, y)))
				}
			}

			var q Payload
			require.NoError(t, q.UnmarshalBinary(b))
			assert.Equal(t, *p, q)
		})
	}
}

func TestOddPixelCount(t *testing.T) {
	b := []byte{
		3, 0, 0, 0,
		1, 0, 0, 0,
		2, 0, 0, 0,
		0x00, 0x00, 0x00,
		0xff, 0xff, 0xff,
		0x01, 0xf1, // high nibble of the last byte is not a pixel
	}

	var p Payload
	require.NoError(t, p.UnmarshalBinary(b))
	assert.Equal(t, []uint8{1, 0, 1}, p.Indices)

	out, err := (&Payload{Width: 3, Height: 1, Palette: p.Palette, Indices: p.Indices}).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01}, out[len(out)-2:])
}

func TestTruncated(t *testing.T) {
	for i := 0; i < len(redGreen); i++ {
		var p Payload
		assert.ErrorIs(t, p.UnmarshalBinary(redGreen[:i]), ErrTruncated, "length %d", i)
	}

	// Dimensions far larger than the data
	b := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0}
	_, err := Decode(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestTrailingData(t *testing.T) {
	var p Payload
	assert.ErrorIs(t, p.UnmarshalBinary(append(append([]byte{}, redGreen...), 0)), ErrTrailingData)
}

func TestInvalidIndex(t *testing.T) {
	b := []byte{
		2, 0, 0, 0,
		1, 0, 0, 0,
		1, 0, 0, 0,
		0xff, 0x00, 0x00,
		0x10,
	}
	_, err := Decode(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = (&Payload{Width: 1, Height: 1, Palette: palette.Palette{{}}, Indices: []uint8{1}}).MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestPaletteTooLarge(t *testing.T) {
	b := []byte{1, 0, 0, 0, 1, 0, 0, 0, 17, 0, 0, 0}
	_, err := Decode(bytes.NewReader(b))
	assert.ErrorIs(t, err, ErrPaletteTooLarge)

	_, err = (&Payload{Palette: make(palette.Palette, 17), Indices: []uint8{}}).MarshalBinary()
	assert.ErrorIs(t, err, ErrPaletteTooLarge)
}

func TestDimensions(t *testing.T) {
	_, _, err := NewPayload(2, 2, make([]colorspace.RGB8, 3), nil)
	assert.ErrorIs(t, err, ErrDimensions)

	_, err = (&Payload{Width: 2, Height: 2, Palette: palette.Palette{{}}, Indices: []uint8{0}}).MarshalBinary()
	assert.ErrorIs(t, err, ErrDimensions)
}

func TestEmptyImage(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, image.NewRGBA(image.Rect(0, 0, 0, 0)), nil))
	assert.Equal(t, make([]byte, headerSize), b.Bytes())

	m, err := Decode(b)
	require.NoError(t, err)
	assert.True(t, m.Bounds().Empty())
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(bytes.NewReader(redGreen[:headerSize+2*colorSize]))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Width)
	assert.Equal(t, 1, c.Height)
	assert.Equal(t, color.Palette{colorspace.RGB8{R: 0xff}, colorspace.RGB8{G: 0xff}}, c.ColorModel)

	_, err = DecodeConfig(bytes.NewReader(redGreen[:headerSize+2]))
	assert.ErrorIs(t, err, ErrTruncated)

	c, err = DecodeConfig(bytes.NewReader(make([]byte, headerSize)))
	require.NoError(t, err)
	assert.Equal(t, color.RGBAModel, c.ColorModel)
	assert.NotPanics(t, func() { c.ColorModel.Convert(color.White) })
}

func TestPixelsOffsetBounds(t *testing.T) {
	m := image.NewRGBA(image.Rect(5, 5, 7, 6))
	m.SetRGBA(5, 5, color.RGBA{1, 2, 3, 0xff})
	m.SetRGBA(6, 5, color.RGBA{4, 5, 6, 0xff})
	assert.Equal(t, []colorspace.RGB8{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}, Pixels(m))
}
