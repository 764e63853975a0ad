/*
Package image implements an imgcpr payload decoder and encoder.

An image is stored as a palette of up to 16 colors followed by a 4-bit palette
index for each pixel. All integers are little-endian:

	offset 0      width          uint32
	offset 4      height         uint32
	offset 8      palette count  uint32, at most 16
	offset 12     palette        3 bytes (R, G, B) per entry
	offset 12+3N  pixels         ceil(width*height/2) bytes

Pixels are stored in row-major order, two per byte with the first pixel in the
low nibble. If there is an odd number of pixels the high nibble of the last
byte is unused. There is no compression; the payload is usually passed through
a general purpose compressor before being written out.
*/
package image

import "github.com/bodgit/imgcpr/palette"

const (
	headerSize = 12
	colorSize  = 3
	maxColors  = palette.MaxSize
)

type header struct {
	Width  uint32
	Height uint32
	Colors uint32
}

func (h header) pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

func pixelBytes(n uint64) uint64 {
	return (n + 1) >> 1
}

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}
