// Package epdimg converts images to C headers holding a 4 bits per pixel
// GFXimage for e-paper displays driven by epd_driver.
package epdimg

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go.afab.re/epdimg/header"
	"go.afab.re/epdimg/nibble"
)

// DefaultTextHeight is the height of text images when a Job doesn't set one.
const DefaultTextHeight = 64

// Job is a single conversion.
type Job struct {
	// Input is the image file. Text is rendered instead if set.
	Input      string `toml:"input"`
	Text       string `toml:"text"`
	TextHeight int    `toml:"text_height"`

	// Name is the C symbol of the GFXimage, the data array is Name_data.
	Name   string `toml:"name"`
	Output string `toml:"output"`
	// Preview optionally writes a PNG of what the display will show.
	Preview string `toml:"preview"`
	Invert  bool   `toml:"invert"`
}

// Result is a converted image.
type Result struct {
	Name   string
	Buffer *nibble.Buffer
}

// Descriptor describes the packed image for the header.
func (r *Result) Descriptor() header.Descriptor {
	return header.Descriptor{
		Width:  r.Buffer.Width(),
		Height: r.Buffer.Height(),
		Data:   r.Buffer.Pix,
	}
}

// Emit writes the C header.
func (r *Result) Emit(w io.Writer) error {
	return header.Emit(w, r.Descriptor(), r.Name)
}

// Convert normalizes and packs an image, ready to be emitted as name.
func Convert(img image.Image, name string, opts Options) (*Result, error) {
	if err := header.ValidName(name); err != nil {
		return nil, err
	}
	if err := opts.Screen.Validate(); err != nil {
		return nil, err
	}

	buf, err := nibble.Pack(Gray(img, opts))
	if err != nil {
		return nil, err
	}

	opts.logger().WithFields(logrus.Fields{
		"name":   name,
		"width":  buf.Width(),
		"height": buf.Height(),
		"bytes":  len(buf.Pix),
	}).Debug("packed")

	return &Result{Name: name, Buffer: buf}, nil
}

// ConvertFile runs a Job: reads or renders the image, converts it and writes
// the header (and preview) files.
// Files are only replaced once completely written, a failed conversion leaves
// no output behind.
func ConvertFile(job Job, opts Options) error {
	log := opts.logger().WithField("name", job.Name)

	if err := header.ValidName(job.Name); err != nil {
		return err
	}
	if job.Output == "" {
		return fmt.Errorf("%w: no output file", ErrUnwritableOutput)
	}

	img, err := source(job, opts, log)
	if err != nil {
		return err
	}

	opts.Invert = opts.Invert || job.Invert
	res, err := Convert(img, job.Name, opts)
	if err != nil {
		return err
	}

	if err := WriteFile(job.Output, res); err != nil {
		return err
	}
	log.WithField("output", job.Output).Info("converted")

	// The preview is only touched once the header is in place, a failed
	// conversion leaves any previous preview as it was.
	if job.Preview != "" {
		if err := writeFile(job.Preview, func(w io.Writer) error {
			return png.Encode(w, res.Buffer)
		}); err != nil {
			return err
		}
		log.WithField("preview", job.Preview).Debug("wrote preview")
	}

	return nil
}

func source(job Job, opts Options, log logrus.FieldLogger) (image.Image, error) {
	switch {
	case job.Text != "":
		height := job.TextHeight
		if height == 0 {
			height = DefaultTextHeight
		}
		return Text(height, job.Text)

	case job.Input != "":
		f, err := os.Open(job.Input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
		}
		defer f.Close()

		img, format, err := Decode(f, opts.Exif)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", job.Input, err)
		}
		log.WithFields(logrus.Fields{
			"input":  job.Input,
			"format": format,
			"width":  img.Bounds().Dx(),
			"height": img.Bounds().Dy(),
		}).Debug("decoded")

		return img, nil

	default:
		return nil, fmt.Errorf("%w: no input file or text", ErrUnreadableInput)
	}
}

// WriteFile writes the C header of res to path.
func WriteFile(path string, res *Result) error {
	return writeFile(path, res.Emit)
}

// writeFile writes to a temporary file next to path, and renames it over path
// once everything is written and synced.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnwritableOutput, path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrUnwritableOutput, err)
	}

	return nil
}
