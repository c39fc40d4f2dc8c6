package epdimg

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// Options control how an image is turned into display pixels.
type Options struct {
	Screen Screen
	Invert bool
	// Rotate is a clockwise rotation in degrees: 0, 90, 180 or 270.
	Rotate int
	// Exif applies the EXIF orientation when decoding files.
	Exif   bool
	Filter imaging.ResampleFilter

	// Log receives debug output. Nil discards it.
	Log logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log != nil {
		return o.Log
	}
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// Gray converts an image to what the display will show:
// - Rotated.
// - Grayscale.
// - Inverted if requested.
// - Shrunk to fit the screen, keeping the aspect ratio. Smaller images are never enlarged.
func Gray(img image.Image, opts Options) *image.Gray {
	switch opts.Rotate {
	case 90:
		img = imaging.Rotate270(img)
	case 180:
		img = imaging.Rotate180(img)
	case 270:
		img = imaging.Rotate90(img)
	}

	img = toGray(img)

	if opts.Invert {
		img = imaging.Invert(img)
	}

	return toGray(imaging.Fit(img, opts.Screen.Width, opts.Screen.Height, opts.Filter))
}

func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	// Alpha is ignored: transparent pixels keep their stored color rather than
	// turning black, so icons on a transparent background come out as drawn.
	src := imaging.Clone(img)
	gray := image.NewGray(src.Rect)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
			i := src.PixOffset(x, y)
			opaque := color.NRGBA{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2], A: 0xFF}
			gray.SetGray(x, y, color.GrayModel.Convert(opaque).(color.Gray))
		}
	}
	return gray
}
