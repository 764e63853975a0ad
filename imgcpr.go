/*
Package imgcpr is a library for compressing images down to a palette of at
most 16 colors with one 4-bit index per pixel.

The payload layout is handled by the image subpackage, palette construction
by the palette subpackage. This package ties them to image files on disk, an
optional resize, a general purpose entropy stage and an sqlite archive.
*/
package imgcpr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/bodgit/imgcpr/entropy"
	codec "github.com/bodgit/imgcpr/image"
	"github.com/disintegration/imaging"
)

// Extension is given to compressed files.
const Extension = ".imgcpr"

var errNilImage = errors.New("imgcpr: nil image")

// Compressor compresses and decompresses images with a fixed configuration.
// It is safe for concurrent use.
type Compressor struct {
	config Config
	logger *log.Logger
}

// New returns a Compressor using config, or DefaultConfig if config is nil.
// A nil logger discards all output.
func New(config *Config, logger *log.Logger) (*Compressor, error) {
	c := DefaultConfig()
	if config != nil {
		c = *config
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Compressor{
		config: c,
		logger: logger,
	}, nil
}

// Config returns the configuration in use.
func (c *Compressor) Config() Config {
	return c.config
}

func (c *Compressor) resize(m image.Image) image.Image {
	h := c.config.Height
	if h == 0 || m.Bounds().Dy() <= h {
		return m
	}
	r := imaging.Resize(m, 0, h, imaging.Lanczos)
	c.logger.Printf("Resized %dx%d to %dx%d\n", m.Bounds().Dx(), m.Bounds().Dy(), r.Bounds().Dx(), r.Bounds().Dy())
	return r
}

func (c *Compressor) encode(m image.Image) (*codec.Payload, []byte, error) {
	if m == nil {
		return nil, nil, errNilImage
	}
	m = c.resize(m)

	opts := c.config.Options()
	p, r, err := codec.FromImage(m, opts)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Printf("Built %s palette of %d colors\n", opts.Method, len(p.Palette))
	if r.Iterations > 0 {
		c.logger.Printf("K-means finished after %d iterations, %d centroids reseeded\n", r.Iterations, r.Reseeded)
	}

	b, err := p.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}

	out, err := entropy.Compress(b, c.config.Entropy)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Printf("Payload is %d bytes, %d bytes after %s\n", len(b), len(out), c.config.Entropy)

	return p, out, nil
}

// Compress returns m compressed.
func (c *Compressor) Compress(m image.Image) ([]byte, error) {
	_, b, err := c.encode(m)
	return b, err
}

// Decompress reverses Compress. The returned image uses the palette that
// was stored.
func (c *Compressor) Decompress(b []byte) (*image.Paletted, error) {
	raw, err := entropy.Decompress(b)
	if err != nil {
		return nil, err
	}

	m, err := codec.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("imgcpr: %w", err)
	}
	return m.(*image.Paletted), nil
}
