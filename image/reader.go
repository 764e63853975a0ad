package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/imgcpr/colorspace"
	"github.com/bodgit/imgcpr/palette"
)

var (
	// ErrTruncated is returned when there is less data than the header
	// describes.
	ErrTruncated = errors.New("image: truncated payload")
	// ErrTrailingData is returned when there is more data than the header
	// describes.
	ErrTrailingData = errors.New("image: too much image data")
	// ErrInvalidIndex is returned for a pixel that refers to a palette
	// entry that doesn't exist.
	ErrInvalidIndex = errors.New("image: invalid palette index")
	// ErrPaletteTooLarge is returned for a palette of more than 16 colors.
	ErrPaletteTooLarge = errors.New("image: too many palette entries")
	// ErrDimensions is returned when the number of pixels doesn't match
	// the width and height.
	ErrDimensions = errors.New("image: pixel count does not match dimensions")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// truncated maps a short read onto ErrTruncated
func truncated(err error) error {
	if err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

type decoder struct {
	r io.Reader

	header  header
	payload Payload

	tmp [headerSize]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:headerSize]); err != nil {
		return err
	}
	if err := binary.Read(bytes.NewReader(d.tmp[:headerSize]), binary.LittleEndian, &d.header); err != nil {
		return err
	}
	if d.header.Colors > maxColors {
		return ErrPaletteTooLarge
	}
	d.payload.Width = d.header.Width
	d.payload.Height = d.header.Height
	return nil
}

func (d *decoder) readPalette() error {
	d.payload.Palette = make(palette.Palette, d.header.Colors)
	for i := range d.payload.Palette {
		if err := readFull(d.r, d.tmp[:colorSize]); err != nil {
			return err
		}
		d.payload.Palette[i] = colorspace.RGB8{R: d.tmp[0], G: d.tmp[1], B: d.tmp[2]}
	}
	return nil
}

func (d *decoder) readPixels() error {
	n := d.header.pixels()
	size := pixelBytes(n)

	// Only allocate as much as is actually there
	b, err := io.ReadAll(io.LimitReader(d.r, int64(size)+1))
	if err != nil {
		return err
	}
	switch {
	case uint64(len(b)) < size:
		return ErrTruncated
	case uint64(len(b)) > size:
		return ErrTrailingData
	}

	colors := byte(len(d.payload.Palette))
	d.payload.Indices = make([]uint8, n)
	for i := range d.payload.Indices {
		var idx byte
		if i&1 == 0 {
			idx = lowerNibble(b[i>>1])
		} else {
			idx = upperNibble(b[i>>1])
		}
		if idx >= colors {
			return fmt.Errorf("%w: %d at pixel %d", ErrInvalidIndex, idx, i)
		}
		d.payload.Indices[i] = idx
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return truncated(err)
	}

	if err := d.readPalette(); err != nil {
		return truncated(err)
	}

	if configOnly {
		return nil
	}

	return d.readPixels()
}

// Decode reads an imgcpr payload from r and returns it as an
// *image.Paletted.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.payload.Image(), nil
}

// DecodeConfig returns the color model and dimensions of an imgcpr payload
// without decoding the pixels. A payload without a palette reports
// color.RGBAModel.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	// An empty color.Palette panics on Convert
	var model color.Model = color.RGBAModel
	if len(d.payload.Palette) > 0 {
		model = d.payload.Palette.ColorPalette()
	}
	return image.Config{
		ColorModel: model,
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}
