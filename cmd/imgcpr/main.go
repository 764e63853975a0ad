package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/imgcpr"
	"github.com/bodgit/imgcpr/entropy"
	"github.com/bodgit/imgcpr/palette"
	"github.com/urfave/cli/v2"
)

const defaultDB = "imgcpr.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var compressFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "palette",
		Aliases: []string{"p"},
		Usage:   "palette method (" + strings.Join(palette.Methods(), ", ") + ")",
	},
	&cli.IntFlag{
		Name:  "size",
		Usage: "number of palette entries to aim for",
	},
	&cli.StringFlag{
		Name:  "empty-cluster",
		Usage: "what to do with an empty k-means cluster (reseed, keep)",
	},
	&cli.IntFlag{
		Name:  "height",
		Usage: "downscale images taller than this many rows",
	},
	&cli.StringFlag{
		Name:    "entropy",
		Aliases: []string{"e"},
		Usage:   "entropy stage (" + strings.Join(entropy.Methods(), ", ") + ")",
	},
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "output file",
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadConfig(c *cli.Context) (*imgcpr.Config, error) {
	config := imgcpr.DefaultConfig()
	if file := c.String("config"); file != "" {
		loaded, err := imgcpr.LoadConfig(file)
		if err != nil {
			return nil, err
		}
		config = *loaded
	}

	if c.IsSet("palette") {
		m, err := palette.ParseMethod(c.String("palette"))
		if err != nil {
			return nil, err
		}
		config.Palette = m
	}
	if c.IsSet("size") {
		config.Size = c.Int("size")
	}
	if c.IsSet("empty-cluster") {
		if err := config.EmptyCluster.UnmarshalText([]byte(c.String("empty-cluster"))); err != nil {
			return nil, err
		}
	}
	if c.IsSet("height") {
		config.Height = c.Int("height")
	}
	if c.IsSet("entropy") {
		m, err := entropy.ParseMethod(c.String("entropy"))
		if err != nil {
			return nil, err
		}
		config.Entropy = m
	}
	if c.IsSet("workers") {
		config.Workers = c.Int("workers")
	}

	return &config, nil
}

func newCompressor(c *cli.Context) (*imgcpr.Compressor, error) {
	config, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return imgcpr.New(config, newLogger(c))
}

func fileAction(f func(*imgcpr.Compressor, string, string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		m, err := newCompressor(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		if err := f(m, c.Args().First(), c.String("output")); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func archiveAction(f func(*cli.Context, *imgcpr.Archive) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		m, err := newCompressor(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		a, err := imgcpr.NewArchive(c.String("db"), m)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer a.Close()

		if err := f(c, a); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "imgcpr"
	app.Usage = "16 color palette image compressor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"IMGCPR_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IMGCPR_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to archive database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "compress",
			Usage:       "Compress an image",
			Description: "The output defaults to the input with a " + imgcpr.Extension + " extension.",
			ArgsUsage:   "FILE",
			Flags:       append([]cli.Flag{outputFlag}, compressFlags...),
			Action:      fileAction((*imgcpr.Compressor).CompressFile),
		},
		{
			Name:        "decompress",
			Usage:       "Decompress an image",
			Description: "The output format is chosen by the extension of the output file, which defaults to PNG.",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{outputFlag},
			Action:      fileAction((*imgcpr.Compressor).DecompressFile),
		},
		{
			Name:        "debug",
			Usage:       "Compress and decompress an image to preview the result",
			Description: "The output defaults to the input with a .debug.png suffix.",
			ArgsUsage:   "FILE",
			Flags:       append([]cli.Flag{outputFlag}, compressFlags...),
			Action:      fileAction((*imgcpr.Compressor).DebugFile),
		},
		{
			Name:        "batch",
			Usage:       "Compress every image under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Usage:   "number of images to compress at once",
				},
			}, compressFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newCompressor(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Batch(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "archive",
			Usage: "Manage an archive of compressed images",
			Subcommands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Compress images into the archive",
					ArgsUsage: "FILE...",
					Flags:     compressFlags,
					Action: archiveAction(func(c *cli.Context, a *imgcpr.Archive) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}
						for _, file := range c.Args().Slice() {
							e, err := a.Add(file)
							if err != nil {
								return err
							}
							fmt.Fprintln(c.App.Writer, e.SHA1)
						}
						return nil
					}),
				},
				{
					Name:      "get",
					Usage:     "Decompress an image from the archive",
					ArgsUsage: "SHA1 FILE",
					Action: archiveAction(func(c *cli.Context, a *imgcpr.Archive) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}
						m, err := a.Get(c.Args().Get(0))
						if err != nil {
							return err
						}
						return imgcpr.SaveImage(m, c.Args().Get(1))
					}),
				},
				{
					Name:  "list",
					Usage: "List the archive contents",
					Action: archiveAction(func(c *cli.Context, a *imgcpr.Archive) error {
						entries, err := a.List()
						if err != nil {
							return err
						}
						for _, e := range entries {
							fmt.Fprintf(c.App.Writer, "%s %5dx%-5d %2d %-9s %8d %s\n", e.SHA1, e.Width, e.Height, e.Colors, e.Method, e.Size, e.Name)
						}
						return nil
					}),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
