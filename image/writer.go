package image

import (
	"image"
	"io"

	"github.com/bodgit/imgcpr/palette"
)

// Encode writes the Image m to w as an imgcpr payload. A nil o selects the
// default frequency palette.
func Encode(w io.Writer, m image.Image, o *palette.Options) error {
	p, _, err := FromImage(m, o)
	if err != nil {
		return err
	}

	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
