package palette

import (
	"image"
	"image/color"

	"github.com/bodgit/imgcpr/colorspace"
	"github.com/ericpauley/go-quantize/quantize"
)

// ByMedianCut returns up to size colors chosen by recursively splitting the
// color cube along its widest axis.
func ByMedianCut(pix []colorspace.RGB8, size int) Palette {
	m := image.NewRGBA(image.Rect(0, 0, len(pix), 1))
	for i, c := range pix {
		m.SetRGBA(i, 0, color.RGBA{c.R, c.G, c.B, 0xff})
	}

	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, size), m)

	p := make(Palette, 0, len(cp))
	for _, c := range cp {
		if len(p) == size {
			break
		}
		p = append(p, colorspace.FromColor(c))
	}
	return p
}
