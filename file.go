package imgcpr

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const debugSuffix = ".debug.png"

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

// IsImage reports whether file has an extension LoadImage understands.
func IsImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

// LoadImage decodes an image file, applying any EXIF orientation.
func LoadImage(file string) (image.Image, error) {
	return imaging.Open(file, imaging.AutoOrientation(true))
}

func decodeImage(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}

// SaveImage writes m in the format implied by the extension of file.
func SaveImage(m image.Image, file string) error {
	return imaging.Save(m, file)
}

func trimExt(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// CompressFile compresses the image in, writing it to out. If out is empty
// the extension of in is replaced with Extension.
func (c *Compressor) CompressFile(in, out string) error {
	if out == "" {
		out = trimExt(in) + Extension
	}

	m, err := LoadImage(in)
	if err != nil {
		return err
	}

	b, err := c.Compress(m)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, b, 0o644); err != nil {
		return err
	}
	c.logger.Printf("Compressed \"%s\" to \"%s\"\n", in, out)

	return nil
}

// DecompressFile decompresses in, writing an image to out in the format its
// extension implies. If out is empty the extension of in is replaced with
// ".png".
func (c *Compressor) DecompressFile(in, out string) error {
	if out == "" {
		out = trimExt(in) + ".png"
	}

	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	m, err := c.Decompress(b)
	if err != nil {
		return err
	}

	if err := SaveImage(m, out); err != nil {
		return err
	}
	c.logger.Printf("Decompressed \"%s\" to \"%s\"\n", in, out)

	return nil
}

// DebugFile compresses and immediately decompresses in, writing the result
// to out so the loss can be inspected. If out is empty it is written next to
// in with a ".debug.png" suffix.
func (c *Compressor) DebugFile(in, out string) error {
	if out == "" {
		out = trimExt(in) + debugSuffix
	}

	m, err := LoadImage(in)
	if err != nil {
		return err
	}

	b, err := c.Compress(m)
	if err != nil {
		return err
	}

	p, err := c.Decompress(b)
	if err != nil {
		return err
	}

	if err := SaveImage(p, out); err != nil {
		return err
	}
	c.logger.Printf("Wrote round trip of \"%s\" to \"%s\"\n", in, out)

	return nil
}
