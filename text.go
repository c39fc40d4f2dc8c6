package epdimg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Horizontal space left on each side of the text, in pixels.
const textMargin = 7

// Text renders a single line of black text on white, height pixels tall,
// with the biggest Go Regular font that fits.
func Text(height int, text string) (*image.Gray, error) {
	if height <= 0 {
		return nil, fmt.Errorf("%w: text height %d", ErrInvalidDimensions, height)
	}

	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	face, err := face(height, ft)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dst := image.NewGray(textBounds(height, face, text))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
	}
	d.DrawString(text)

	return dst, nil
}

// Find the biggest font for a given height. At 72 DPI points are pixels.
func face(height int, ft *opentype.Font) (font.Face, error) {
	var best font.Face

	for size := float64(1); ; size++ {
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}

		if face.Metrics().Height.Ceil() > height {
			face.Close()
			if best == nil {
				return nil, fmt.Errorf("%w: text height %d is too small for any font size", ErrInvalidDimensions, height)
			}
			return best, nil
		}

		if best != nil {
			best.Close()
		}
		best = face
	}
}

// textBounds places the baseline at y = 0.
func textBounds(height int, face font.Face, text string) image.Rectangle {
	m := face.Metrics()

	// Center the font vertically, not the specific text, so every line of a
	// given height shares the same baseline.
	yMin := -m.Ascent.Ceil()
	yMax := m.Descent.Ceil()

	yMargin := height - (yMax - yMin)

	// Odd margins give the extra pixel to the bottom.
	yMax += (yMargin + 1) / 2
	yMin -= yMargin / 2

	tBounds, _ := font.BoundString(face, text)
	return image.Rect(
		tBounds.Min.X.Floor()-textMargin, yMin,
		tBounds.Max.X.Ceil()+textMargin, yMax,
	)
}
