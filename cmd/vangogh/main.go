package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/vangogh"
	"github.com/bodgit/vangogh/raw"
	"github.com/urfave/cli/v2"
)

const defaultDB = "vangogh.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newVanGogh(c *cli.Context) (*vangogh.VanGogh, error) {
	e, err := vangogh.NewEncoder(c.Int("block-size"))
	if err != nil {
		return nil, err
	}
	return vangogh.New(e, newLogger(c)), nil
}

func withLibrary(c *cli.Context, f func(*vangogh.VanGogh, *vangogh.Library) error) error {
	v, err := newVanGogh(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	l, err := vangogh.NewLibrary(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer l.Close()

	if err := f(v, l); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "vangogh"
	app.Usage = "VanGogh image conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"VANGOGH_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to image library",
		},
		&cli.IntFlag{
			Name:    "block-size",
			Aliases: []string{"b"},
			EnvVars: []string{"VANGOGH_BLOCK_SIZE"},
			Value:   vangogh.DefaultBlockSize,
			Usage:   "width and height of each quantization block",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Convert a VanGogh image to PNG",
			ArgsUsage: "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				v, err := newVanGogh(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := v.DecodeFile(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "encode",
			Usage:     "Convert a PNG image to VanGogh",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "width",
					Usage: "resize to this width first",
				},
				&cli.UintFlag{
					Name:  "height",
					Usage: "resize to this height first",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				v, err := newVanGogh(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := raw.ReadFile(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := v.EncodeImage(raw.Resize(m, c.Uint("width"), c.Uint("height")), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Show details of a VanGogh image",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				v, err := newVanGogh(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := v.ReadFile(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Fprintf(c.App.Writer, "%dx%d, %d palette colors\n", m.Width, m.Height, m.Palette.Len())

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every PNG image in a directory tree",
			Description: "Each PNG image is written as a VanGogh image alongside the original",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				v, err := newVanGogh(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := v.Scan(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "library",
			Usage: "Manage the image library",
			Subcommands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Add a PNG or VanGogh image to the library",
					ArgsUsage: "NAME FILE",
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						return withLibrary(c, func(v *vangogh.VanGogh, l *vangogh.Library) error {
							m, err := v.Load(c.Args().Get(1))
							if err != nil {
								return err
							}
							return l.Add(c.Args().Get(0), m)
						})
					},
				},
				{
					Name:      "get",
					Usage:     "Write an image from the library as PNG or VanGogh",
					ArgsUsage: "NAME FILE",
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						return withLibrary(c, func(v *vangogh.VanGogh, l *vangogh.Library) error {
							m, err := l.Find(c.Args().Get(0))
							if err != nil {
								return err
							}
							if m == nil {
								return fmt.Errorf("no image named \"%s\"", c.Args().Get(0))
							}
							return v.Save(c.Args().Get(1), m)
						})
					},
				},
				{
					Name:      "remove",
					Usage:     "Remove an image from the library",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						return withLibrary(c, func(_ *vangogh.VanGogh, l *vangogh.Library) error {
							ok, err := l.Remove(c.Args().First())
							if err != nil {
								return err
							}
							if !ok {
								return fmt.Errorf("no image named \"%s\"", c.Args().First())
							}
							return nil
						})
					},
				},
				{
					Name:  "list",
					Usage: "List the images in the library",
					Action: func(c *cli.Context) error {
						return withLibrary(c, func(_ *vangogh.VanGogh, l *vangogh.Library) error {
							entries, err := l.List()
							if err != nil {
								return err
							}
							for _, e := range entries {
								fmt.Fprintf(c.App.Writer, "%s\t%dx%d\t%d\t%s\n", e.Name, e.Width, e.Height, e.Size, e.SHA1)
							}
							return nil
						})
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
