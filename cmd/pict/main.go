// Package main provides the pict command line tool: headless access to
// the viewer's editing operations for scripting and batch work.
package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gogpu/pict"
	"github.com/gogpu/pict/config"
	"github.com/gogpu/pict/imageio"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "pict",
		Usage:   "view and edit images from the command line",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "preferences file `PATH`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log to stderr",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			infoCommand(),
			adjustCommand(),
			cropCommand(),
			resizeCommand(),
			filterCommand(),
			convertCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pict:", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	if c.Bool("verbose") {
		pict.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	return nil
}

func loadPrefs(c *cli.Context) (config.Preferences, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Defaults(), nil
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print image dimensions and format",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one input file")
			}
			doc, err := imageio.Load(c.Args().First())
			if err != nil {
				return err
			}
			b := doc.Frame(0).Bounds()
			fmt.Printf("%s: %s, %dx%d", doc.Path, doc.Format, b.Dx(), b.Dy())
			if doc.Animated() {
				fmt.Printf(", %d frames", len(doc.Frames))
			}
			fmt.Println()
			return nil
		},
	}
}

func adjustCommand() *cli.Command {
	return &cli.Command{
		Name:      "adjust",
		Usage:     "apply color adjustments and save",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "hue", Usage: "hue rotation in degrees [-180, 180]"},
			&cli.Float64Flag{Name: "contrast", Usage: "contrast percentage [-100, 100]"},
			&cli.Float64Flag{Name: "brightness", Usage: "brightness percentage [-100, 100]"},
			&cli.Float64Flag{Name: "saturation", Usage: "saturation percentage [-100, 100]"},
			&cli.BoolFlag{Name: "grayscale", Usage: "collapse to luma"},
			&cli.BoolFlag{Name: "invert", Usage: "invert RGB channels"},
			outputFlag(),
		},
		Action: func(c *cli.Context) error {
			adj := pict.ColorAdjustment{
				Hue:        c.Float64("hue"),
				Contrast:   c.Float64("contrast"),
				Brightness: c.Float64("brightness"),
				Saturation: c.Float64("saturation"),
				Grayscale:  c.Bool("grayscale"),
				Invert:     c.Bool("invert"),
			}.Clamped()

			return transformFile(c, func(img *imageFrame) error {
				img.pix = pict.AdjustImage(img.pix, adj)
				return nil
			})
		},
	}
}

func cropCommand() *cli.Command {
	return &cli.Command{
		Name:      "crop",
		Usage:     "cut a pixel rectangle out of the image",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "x", Usage: "left edge in pixels"},
			&cli.Float64Flag{Name: "y", Usage: "top edge in pixels"},
			&cli.Float64Flag{Name: "width", Aliases: []string{"w"}, Required: true},
			&cli.Float64Flag{Name: "height", Aliases: []string{"H"}, Required: true},
			outputFlag(),
		},
		Action: func(c *cli.Context) error {
			sel := pict.RectFromSize(
				pict.V2(c.Float64("x"), c.Float64("y")),
				pict.V2(c.Float64("width"), c.Float64("height")),
			)
			return transformFile(c, func(img *imageFrame) error {
				out, err := imageio.Crop(img.pix, sel)
				if err != nil {
					return err
				}
				img.pix = out
				return nil
			})
		},
	}
}

func resizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "resize",
		Usage:     "resample the image to a new size",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "target width (0 keeps aspect)"},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "target height (0 keeps aspect)"},
			&cli.StringFlag{Name: "filter", Usage: "nearest, linear, catmullrom, gaussian, or lanczos"},
			outputFlag(),
		},
		Action: func(c *cli.Context) error {
			prefs, err := loadPrefs(c)
			if err != nil {
				return err
			}
			filter := prefs.Filter()
			if name := c.String("filter"); name != "" {
				filter = imageio.Filter(name)
			}
			return transformFile(c, func(img *imageFrame) error {
				out, err := imageio.Resize(img.pix, c.Int("width"), c.Int("height"), filter)
				if err != nil {
					return err
				}
				img.pix = out
				return nil
			})
		},
	}
}

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "blur or sharpen the image",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "blur", Usage: "Gaussian blur `RADIUS` in pixels"},
			&cli.BoolFlag{Name: "sharpen", Usage: "sharpen after any blur"},
			outputFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.Float64("blur") <= 0 && !c.Bool("sharpen") {
				return fmt.Errorf("nothing to do: pass --blur and/or --sharpen")
			}
			return transformFile(c, func(img *imageFrame) error {
				if radius := c.Float64("blur"); radius > 0 {
					img.pix = imageio.Blur(img.pix, radius)
				}
				if c.Bool("sharpen") {
					img.pix = imageio.Sharpen(img.pix)
				}
				return nil
			})
		},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "re-encode the image in the format of the output extension",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{outputFlag()},
		Action: func(c *cli.Context) error {
			return transformFile(c, func(*imageFrame) error { return nil })
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "output file `PATH`",
		Required: true,
	}
}

// imageFrame lets transform callbacks replace the pixel data.
type imageFrame struct {
	pix *image.NRGBA
}

// transformFile loads the single input file, applies fn to the first
// frame, and saves the result with the configured encoder options.
func transformFile(c *cli.Context, fn func(*imageFrame) error) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one input file")
	}
	prefs, err := loadPrefs(c)
	if err != nil {
		return err
	}

	doc, err := imageio.Load(c.Args().First())
	if err != nil {
		return err
	}
	frame := &imageFrame{pix: doc.Frame(0)}
	if err := fn(frame); err != nil {
		return err
	}
	return imageio.Save(c.String("output"), frame.pix, prefs.SaveOptions())
}
