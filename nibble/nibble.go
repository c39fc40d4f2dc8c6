// Package nibble packs 8-bit grayscale images into the 4 bits per pixel
// layout used by the e-paper driver's GFXimage type.
//
// Each byte holds two horizontally adjacent pixels. The even (left) pixel is
// in the low nibble, the odd (right) pixel in the high nibble:
//
//	Pixels: 0    1    2    3
//	Values: 0x1F 0xA0 0x30 0xC7
//	Bytes:  0xA1      0xC3
//
// Rows are ceil(width/2) bytes long and are stored back to back. On odd width
// images the last byte of every row only carries the low nibble.
package nibble

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidDimensions is returned for images with no pixels.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Source is a grayscale pixel source. *image.Gray implements it.
type Source interface {
	Bounds() image.Rectangle
	GrayAt(x, y int) color.Gray
}

// Stride is the number of bytes in a packed row of w pixels.
func Stride(w int) int {
	return (w + 1) / 2
}

// Len is the number of bytes of a packed w x h image.
func Len(w, h int) int {
	return Stride(w) * h
}

// Pack packs src row by row. Samples are truncated to their top 4 bits.
func Pack(src Source) (*Buffer, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	buf := New(w, h)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			even := src.GrayAt(x, y).Y
			var odd uint8
			if x+1 < b.Max.X {
				odd = src.GrayAt(x+1, y).Y
			}
			buf.Pix[i] = pair(even, odd)
			i++
		}
	}

	return buf, nil
}

// pair combines two samples: the even one shifted down into the low nibble,
// the odd one masked so its top bits stay in the high nibble.
func pair(even, odd uint8) byte {
	return even>>4 | odd&0xF0
}
