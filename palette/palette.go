/*
Package palette builds palettes of up to 16 colors for an image and maps each
pixel onto its nearest palette entry.

Four methods are available. Frequency picks the most common colors after
discarding the low four bits of each channel, skipping candidates too close to
a color already picked. KMeans and CIELab cluster the pixels in the ITP and
CIELab color spaces respectively. MedianCut uses a median cut quantizer.
*/
package palette

import (
	"image/color"

	"github.com/bodgit/imgcpr/colorspace"
	"github.com/bodgit/imgcpr/kmeans"
)

const (
	// MaxSize is the largest palette that 4-bit indices can address.
	MaxSize = 16

	// DefaultSize is the palette size used unless told otherwise.
	DefaultSize = MaxSize

	// DefaultRejectDistance is the redmean distance below which the
	// frequency method treats two colors as duplicates.
	DefaultRejectDistance = 32
)

// Palette is an ordered list of colors, the position of an entry is its
// index.
type Palette []colorspace.RGB8

// ColorPalette returns the palette as a color.Palette.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// Options controls how a palette is built. The zero value of each field
// selects its default.
type Options struct {
	Method Method
	// Size is the number of entries to aim for, capped at MaxSize.
	Size int
	// RejectDistance is used by the Frequency method.
	RejectDistance float64
	// Threshold, MaxIterations and Empty are used by the clustering
	// methods.
	Threshold     float64
	MaxIterations int
	Empty         kmeans.EmptyPolicy
}

func (o *Options) normalize() Options {
	var n Options
	if o != nil {
		n = *o
	}
	if n.Size <= 0 || n.Size > MaxSize {
		n.Size = DefaultSize
	}
	if n.RejectDistance <= 0 {
		n.RejectDistance = DefaultRejectDistance
	}
	if n.Threshold <= 0 {
		n.Threshold = kmeans.DefaultThreshold
	}
	if n.MaxIterations <= 0 {
		n.MaxIterations = kmeans.DefaultMaxIterations
	}
	return n
}

// Result is a palette together with the index of every pixel.
type Result struct {
	Palette Palette
	// Indices holds one palette index per pixel, in the order the pixels
	// were given.
	Indices []uint8

	// Iterations and Reseeded report on the clustering run, they are zero
	// for the other methods.
	Iterations int
	Reseeded   int
}

// Quantize builds a palette for pix and maps every pixel onto it. It never
// fails; the palette may be shorter than requested and is empty only when
// pix is.
func Quantize(pix []colorspace.RGB8, o *Options) *Result {
	opts := o.normalize()

	if len(pix) == 0 {
		return &Result{
			Palette: Palette{},
			Indices: []uint8{},
		}
	}

	switch opts.Method {
	case KMeans:
		return cluster(pix, colorspace.RGB8.ITP, colorspace.ITP.RGB8, opts)
	case CIELab:
		return cluster(pix, colorspace.RGB8.Lab, colorspace.Lab.RGB8, opts)
	case MedianCut:
		p := ByMedianCut(pix, opts.Size)
		if len(p) == 0 {
			p = ByFrequency(pix, opts.Size, opts.RejectDistance)
		}
		return &Result{Palette: p, Indices: Index(pix, p)}
	default:
		p := ByFrequency(pix, opts.Size, opts.RejectDistance)
		return &Result{Palette: p, Indices: Index(pix, p)}
	}
}

// Index maps each pixel onto the nearest entry of p using the redmean
// distance. p must not be empty unless pix is.
func Index(pix []colorspace.RGB8, p Palette) []uint8 {
	indices := make([]uint8, len(pix))
	cache := make(map[colorspace.RGB8]uint8)
	for i, c := range pix {
		idx, ok := cache[c]
		if !ok {
			j, _ := colorspace.Nearest(c, p)
			idx = uint8(j)
			cache[c] = idx
		}
		indices[i] = idx
	}
	return indices
}
