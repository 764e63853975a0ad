package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/bodgit/imgcpr/colorspace"
	"github.com/bodgit/imgcpr/palette"
)

// Payload is a decoded imgcpr image. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Payload struct {
	Width, Height uint32
	Palette       palette.Palette
	// Indices holds one palette index per pixel in row-major order
	Indices []uint8
}

// Pixels returns the pixels of m in row-major order.
func Pixels(m image.Image) []colorspace.RGB8 {
	b := m.Bounds()
	pix := make([]colorspace.RGB8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, colorspace.FromColor(m.At(x, y)))
		}
	}
	return pix
}

// NewPayload builds a palette for the pixels in pix, which must be width by
// height pixels in row-major order, and quantizes them against it. The
// palette.Result is returned as well for callers interested in how the
// palette was built.
func NewPayload(width, height int, pix []colorspace.RGB8, o *palette.Options) (*Payload, *palette.Result, error) {
	if width < 0 || height < 0 || uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 || width*height != len(pix) {
		return nil, nil, ErrDimensions
	}

	r := palette.Quantize(pix, o)

	return &Payload{
		Width:   uint32(width),
		Height:  uint32(height),
		Palette: r.Palette,
		Indices: r.Indices,
	}, r, nil
}

// FromImage is NewPayload for an image.Image.
func FromImage(m image.Image, o *palette.Options) (*Payload, *palette.Result, error) {
	b := m.Bounds()
	return NewPayload(b.Dx(), b.Dy(), Pixels(m), o)
}

func (p *Payload) validate() error {
	if len(p.Palette) > maxColors {
		return ErrPaletteTooLarge
	}
	if uint64(len(p.Indices)) != uint64(p.Width)*uint64(p.Height) {
		return ErrDimensions
	}
	for i, idx := range p.Indices {
		if int(idx) >= len(p.Palette) {
			return fmt.Errorf("%w: %d at pixel %d", ErrInvalidIndex, idx, i)
		}
	}
	return nil
}

func pack(indices []uint8) []byte {
	b := make([]byte, pixelBytes(uint64(len(indices))))
	for i, idx := range indices {
		if i&1 == 0 {
			b[i>>1] = lowerNibble(idx)
		} else {
			b[i>>1] |= lowerNibble(idx) << 4
		}
	}
	return b
}

// MarshalBinary encodes the payload into binary form and returns the result
func (p *Payload) MarshalBinary() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	b.Grow(headerSize + colorSize*len(p.Palette) + len(p.Indices)/2 + 1)

	h := header{
		Width:  p.Width,
		Height: p.Height,
		Colors: uint32(len(p.Palette)),
	}
	if err := binary.Write(b, binary.LittleEndian, &h); err != nil {
		return nil, err
	}

	for _, c := range p.Palette {
		if _, err := b.Write([]byte{c.R, c.G, c.B}); err != nil {
			return nil, err
		}
	}

	if _, err := b.Write(pack(p.Indices)); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the payload from binary form
func (p *Payload) UnmarshalBinary(b []byte) error {
	var d decoder
	if err := d.decode(bytes.NewReader(b), false); err != nil {
		return err
	}
	*p = d.payload
	return nil
}

// Image returns the payload as an *image.Paletted whose palette holds the
// stored colors.
func (p *Payload) Image() *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, int(p.Width), int(p.Height)), p.Palette.ColorPalette())
	copy(m.Pix, p.Indices)
	return m
}
