package imgcpr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bodgit/imgcpr/entropy"
	"github.com/bodgit/imgcpr/kmeans"
	"github.com/bodgit/imgcpr/palette"
	"gopkg.in/yaml.v3"
)

// Config holds everything that affects how images are compressed.
//
// A zero Size, RejectDistance, Threshold or MaxIterations is not a value in
// its own right, it selects palette.DefaultSize,
// palette.DefaultRejectDistance, kmeans.DefaultThreshold or
// kmeans.DefaultMaxIterations respectively.
type Config struct {
	Palette palette.Method `yaml:"palette"`
	// Size is between 1 and palette.MaxSize, or 0 for the default.
	Size           int                `yaml:"size"`
	RejectDistance float64            `yaml:"reject_distance"`
	Threshold      float64            `yaml:"threshold"`
	MaxIterations  int                `yaml:"max_iterations"`
	EmptyCluster   kmeans.EmptyPolicy `yaml:"empty_cluster"`
	Entropy        entropy.Method     `yaml:"entropy"`
	// Height, if non-zero, downscales taller images to this many rows
	// before compressing.
	Height int `yaml:"height"`
	// Workers is the number of files Batch compresses at once.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Palette:        palette.Frequency,
		Size:           palette.DefaultSize,
		RejectDistance: palette.DefaultRejectDistance,
		Threshold:      kmeans.DefaultThreshold,
		MaxIterations:  kmeans.DefaultMaxIterations,
		EmptyCluster:   kmeans.Reseed,
		Entropy:        entropy.Deflate,
		Workers:        runtime.NumCPU(),
	}
}

// Validate checks the values are usable. Zero values pass, see Config.
func (c *Config) Validate() error {
	switch {
	case c.Size < 0 || c.Size > palette.MaxSize:
		return fmt.Errorf("imgcpr: palette size must be between 1 and %d, or 0 for the default", palette.MaxSize)
	case c.RejectDistance < 0:
		return errors.New("imgcpr: reject distance must not be negative")
	case c.Threshold < 0:
		return errors.New("imgcpr: threshold must not be negative")
	case c.MaxIterations < 0:
		return errors.New("imgcpr: max iterations must not be negative")
	case c.Height < 0:
		return errors.New("imgcpr: height must not be negative")
	case c.Workers < 0:
		return errors.New("imgcpr: workers must not be negative")
	}
	return nil
}

// Options returns the palette options the configuration implies.
func (c *Config) Options() *palette.Options {
	return &palette.Options{
		Method:         c.Palette,
		Size:           c.Size,
		RejectDistance: c.RejectDistance,
		Threshold:      c.Threshold,
		MaxIterations:  c.MaxIterations,
		Empty:          c.EmptyCluster,
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their default value, unknown keys are an error.
func LoadConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("imgcpr: %s: %w", file, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}
