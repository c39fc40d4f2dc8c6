package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"go.afab.re/epdimg"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `%s [options] -i image -n name -o name.h

Convert an image to a C header declaring a 4bpp GFXimage for epd_driver.h.
Without -i or -text, the [[image]] jobs of the -config file are converted.

`, os.Args[0])
		flag.PrintDefaults()
	}

	var (
		input      = flag.String("i", "", "Input image (PNG/JPEG/GIF/BMP/TIFF/WebP).")
		output     = flag.String("o", "", "Output header file.")
		name       = flag.String("n", "", "C symbol name of the image.")
		invert     = flag.Bool("invert", false, "Invert image colors.")
		config     = flag.String("config", "", "TOML config file.")
		text       = flag.String("text", "", "Render this text instead of reading an image.")
		textHeight = flag.Int("text-height", epdimg.DefaultTextHeight, "Height of rendered text, in pixels.")
		preview    = flag.String("preview", "", "Also write what the display will show as a PNG image to filename.")
		rotate     = flag.Int("rotate", 0, "Rotate clockwise by 0, 90, 180 or 270 degrees.")
		exif       = flag.Bool("exif", false, "Apply the EXIF orientation of the input.")
		filter     = flag.String("filter", "", "Resampling filter, one of: "+strings.Join(epdimg.FilterNames(), ", ")+".")
		width      = flag.Int("width", 0, "Screen width in pixels, must be even.")
		height     = flag.Int("height", 0, "Screen height in pixels.")
		verbose    = flag.Bool("v", false, "Verbose logging.")
	)
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(-1)
	}

	log := logger(os.Stderr, *verbose)

	f := flags{
		job: epdimg.Job{
			Input:      *input,
			Text:       *text,
			TextHeight: *textHeight,
			Name:       *name,
			Output:     *output,
			Preview:    *preview,
			Invert:     *invert,
		},
		config: *config,
		filter: *filter,
	}
	// Only explicitly set flags override the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "width":
			f.width = width
		case "height":
			f.height = height
		case "rotate":
			f.rotate = rotate
		case "exif":
			f.exif = exif
		case "text-height":
			f.textHeight = textHeight
		}
	})

	if err := run(f, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(-1)
	}
}

type flags struct {
	job    epdimg.Job
	config string

	filter        string
	width, height *int
	rotate        *int
	exif          *bool
	textHeight    *int
}

func run(f flags, log logrus.FieldLogger) error {
	cfg := epdimg.DefaultConfig
	if f.config != "" {
		var err error
		cfg, err = epdimg.LoadConfig(f.config)
		if err != nil {
			return err
		}
	}

	if f.filter != "" {
		cfg.Filter = f.filter
	}
	if f.width != nil {
		cfg.Screen.Width = *f.width
	}
	if f.height != nil {
		cfg.Screen.Height = *f.height
	}
	if f.rotate != nil {
		cfg.Rotate = *f.rotate
	}
	if f.exif != nil {
		cfg.Exif = *f.exif
	}

	// Checked once, before any conversion.
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}

	if f.job.Input != "" || f.job.Text != "" {
		return epdimg.ConvertFile(f.job, opts)
	}

	if len(cfg.Images) == 0 {
		return fmt.Errorf("nothing to convert, use -i or -text, or a -config with [[image]] jobs")
	}
	if f.job.Name != "" || f.job.Output != "" || f.job.Preview != "" {
		return fmt.Errorf("-n, -o and -preview need -i or -text, [[image]] jobs set their own")
	}

	// Remaining flags apply to every job.
	opts.Invert = f.job.Invert
	jobs := make([]epdimg.Job, len(cfg.Images))
	copy(jobs, cfg.Images)
	for i := range jobs {
		if jobs[i].TextHeight == 0 && f.textHeight != nil {
			jobs[i].TextHeight = *f.textHeight
		}
	}

	return convertAll(jobs, opts)
}

func logger(w *os.File, verbose bool) *logrus.Logger {
	log := logrus.New()

	var out io.Writer = w
	color := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	if color {
		out = colorable.NewColorable(w)
	}
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      color,
		DisableColors:    !color,
		DisableTimestamp: true,
	})

	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
