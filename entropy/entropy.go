/*
Package entropy wraps an encoded payload in a general purpose compressor.

Raw DEFLATE is the default. Zstandard is also available and Decompress tells
the two apart by the Zstandard frame magic, so callers never need to record
which one was used.
*/
package entropy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Method selects the compressor.
type Method int

// Compression methods.
const (
	Deflate Method = iota
	Zstd
)

var methodNames = map[Method]string{
	Deflate: "deflate",
	Zstd:    "zstd",
}

// Methods lists the names accepted by ParseMethod.
func Methods() []string {
	return []string{"deflate", "zstd"}
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod returns the Method with the given name.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("entropy: unknown method %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MaxDecompressedSize bounds the output of Decompress. It is enough for a
// payload of a little over 500 million pixels.
const MaxDecompressedSize = 256 << 20

var (
	// ErrEmpty is returned when there is nothing to decompress.
	ErrEmpty = errors.New("entropy: empty input")
	// ErrTooLarge is returned when the output would exceed
	// MaxDecompressedSize.
	ErrTooLarge = errors.New("entropy: decompressed data too large")

	errUnknownMethod = errors.New("entropy: unknown method")
)

// A raw DEFLATE stream can never start with these bytes, the first block
// would have to be a stored block whose length fields don't agree.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdErr     error
)

func initZstd() {
	zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithZeroFrames(true))
}

// Compress compresses b with m.
func Compress(b []byte, m Method) ([]byte, error) {
	switch m {
	case Deflate:
		buf := new(bytes.Buffer)
		w, err := flate.NewWriter(buf, flate.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(b); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Zstd:
		zstdOnce.Do(initZstd)
		if zstdErr != nil {
			return nil, zstdErr
		}
		return zstdEncoder.EncodeAll(b, nil), nil
	}
	return nil, errUnknownMethod
}

// Decompress reverses Compress, whichever method was used. It fails with
// ErrTooLarge rather than produce more than MaxDecompressedSize bytes.
func Decompress(b []byte) ([]byte, error) {
	return decompress(b, MaxDecompressedSize)
}

func decompress(b []byte, limit int64) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrEmpty
	}

	var r io.ReadCloser
	if bytes.HasPrefix(b, zstdMagic) {
		d, err := zstd.NewReader(bytes.NewReader(b), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("entropy: %w", err)
		}
		r = d.IOReadCloser()
	} else {
		r = flate.NewReader(bytes.NewReader(b))
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("entropy: %w", err)
	}
	if int64(len(out)) > limit {
		return nil, ErrTooLarge
	}
	return out, nil
}
